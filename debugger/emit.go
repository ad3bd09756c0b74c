package debugger

import (
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/kdschlosser/angry-debugger/debugger/callsite"
	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/debugger/sink"
	"github.com/kdschlosser/angry-debugger/debugger/trace"
)

// coreDir is the directory holding this package's sources. Frames from its
// non-test files are never reported as callers and are removed from panic
// tracebacks.
var coreDir = func() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}
	return filepath.Dir(file)
}()

func isCoreFile(file string) bool {
	return coreDir != "" && filepath.Dir(file) == coreDir && !strings.HasSuffix(file, "_test.go")
}

// ignoreFrame hides wrapper machinery from caller resolution.
func ignoreFrame(f runtime.Frame) bool {
	if strings.HasPrefix(f.Function, "reflect.") || strings.HasPrefix(f.Function, "runtime.") {
		return true
	}
	return isCoreFile(f.File)
}

// callerOr resolves the traced call's caller. When no frame outside the
// tracer is left, as for a wrapper started directly with a go statement, the
// module-only site degraded is used instead.
func callerOr(degraded callsite.Site) callsite.Site {
	if site, ok := callsite.Caller(1, ignoreFrame); ok {
		return site
	}
	return degraded
}

// target is the static description of a wrapped callable, resolved once at
// wrap time.
type target struct {
	logger *sink.Logger
	pkg    string        // package of the wrapped function
	name   string        // qualified name shown on the dst line
	site   callsite.Site // declaration site
	suffix string        // " (getter)", " (setter)", " (deleter)" or ""
	sig    Signature
}

// invocation is one call's arguments as seen by the tracer. It is built only
// when a record is going to be written.
type invocation struct {
	receiver reflect.Value
	args     []any
	kwargs   map[string]any
}

// displayName prefers the receiver's dynamic type over the static name.
// Closures keep their static name; a receiver type in front of func1 says
// nothing.
func (t *target) displayName(recv reflect.Value) string {
	if !recv.IsValid() || callsite.IsClosure(t.name) {
		return t.name
	}
	if recv.Kind() == reflect.Interface {
		if recv.IsNil() {
			return t.name
		}
		recv = recv.Elem()
	}
	typ := callsite.TypeName(recv.Type())
	if typ == "" {
		return t.name
	}
	return typ + "." + callsite.ShortName(t.name)
}

// invoke is the single path every traced call takes. bind describes the
// call's arguments, call performs it and results flattens its outcome for
// the return line. Results and panics of call pass through unchanged.
func invoke[R any](t *target, bind func() invocation, call func() R, results func(R) []any) R {
	lvl := t.logger.EffectiveLevel()
	timeIt := lvl.Has(level.TimeIt)
	args := lvl.Has(level.Args)
	ret := lvl.Has(level.Return)
	from := lvl.Has(level.CallFrom)
	to := lvl.Has(level.CallTo)

	if !timeIt && !args && !ret && !from && !to {
		return call()
	}

	src := callsite.Hidden()
	if from {
		src = callerOr(callsite.Site{Name: t.pkg, File: t.site.File, Line: t.site.Line, Logged: true})
	}
	dst := callsite.Site{Name: t.name, File: t.site.File, Line: t.site.Line, Logged: true}
	if !to {
		dst = dst.Unlogged()
	}

	inv := bind()
	name := t.displayName(inv.receiver)
	argString := ""
	if args {
		argString = t.sig.Format(inv.args, inv.kwargs)
	}

	m := newMessage(lvl, src, dst, t.suffix)
	m.line("function called: " + name + argString)

	var out R
	if timeIt {
		start := time.Now()
		out = call()
		m.b.WriteString(durationLine(FormatDuration(time.Since(start))))
	} else {
		out = call()
	}

	if ret {
		m.line(name + " => " + reprResults(results(out)))
	}

	route(trace.Record{Logger: t.logger, Level: lvl, Message: m.String()})
	return out
}
