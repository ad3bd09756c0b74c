package debugger

import (
	"strings"
	"sync"

	"github.com/kdschlosser/angry-debugger/debugger/callsite"
	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/debugger/sink"
	"github.com/kdschlosser/angry-debugger/debugger/trace"
)

// Attribute is a traced mutable cell. It can be read and reassigned but
// never deleted.
type Attribute[T any] struct {
	mu    sync.RWMutex
	value T

	name   string
	pkg    string
	site   callsite.Site
	logger *sink.Logger
}

// Attr returns a cell holding value. A name without a '.' is qualified with
// the calling package. The cell's declaration site is the line calling Attr
// and its default logger is named after the calling package.
func Attr[T any](name string, value T, opts ...Option) *Attribute[T] {
	o := collect(opts)
	site, _ := callsite.Caller(0, ignoreFrame)
	pkg := callsite.PackageName(site.Name)

	if !strings.Contains(name, ".") && pkg != "" {
		name = pkg + "." + name
	}
	if o.name != "" {
		name = o.name
	}
	lg := o.logger
	if lg == nil {
		lg = sink.Get(pkg)
	}
	return &Attribute[T]{
		value:  value,
		name:   name,
		pkg:    pkg,
		site:   site,
		logger: lg,
	}
}

// Name returns the attribute's qualified name.
func (a *Attribute[T]) Name() string {
	return a.name
}

// Get returns the current value.
func (a *Attribute[T]) Get() T {
	a.mu.RLock()
	v := a.value
	a.mu.RUnlock()

	a.trace(" (attribute)", func() string {
		return "attribute get: " + a.name
	})
	return v
}

// Set replaces the current value.
func (a *Attribute[T]) Set(v T) {
	a.trace("", func() string {
		return "attribute set: " + a.name + " = " + repr(v)
	})

	a.mu.Lock()
	a.value = v
	a.mu.Unlock()
}

// trace records an access when the level captures either call site or is
// level.Angry.
func (a *Attribute[T]) trace(suffix string, body func() string) {
	lvl := a.logger.EffectiveLevel()
	from := lvl.Has(level.CallFrom)
	to := lvl.Has(level.CallTo)
	if !from && !to && lvl != level.Angry {
		return
	}

	src := callsite.Hidden()
	if from {
		src = callerOr(callsite.Site{Name: a.pkg, File: a.site.File, Line: a.site.Line, Logged: true})
	}
	dst := callsite.Site{Name: a.name, File: a.site.File, Line: a.site.Line, Logged: true}
	if !to {
		dst = dst.Unlogged()
	}

	m := newMessage(lvl, src, dst, suffix)
	m.line(body())
	route(trace.Record{Logger: a.logger, Level: lvl, Message: m.String()})
}
