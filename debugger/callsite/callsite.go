// Package callsite resolves the (name, file, line) triple of a point in the
// call chain.
//
// Names are derived from runtime function names and rendered as dotted
// qualified names: the last element of the package path, the receiver type
// for methods, then the function. Closures keep their enclosing function as a
// path segment (pkg.outer.func1), which is how nested functions surface.
package callsite

import (
	"os"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

// NotLogged replaces any field that the active level does not capture.
const NotLogged = "NOT LOGGED"

// maxDepth bounds the stack walk in Caller.
const maxDepth = 64

// Site is an immutable description of a call origin or destination.
type Site struct {
	Name   string
	File   string
	Line   int
	Logged bool
}

// Location renders "file:line", or the NOT LOGGED sentinel pair when the
// site's location was not captured.
func (s Site) Location() string {
	if !s.Logged {
		return NotLogged + ":" + NotLogged
	}
	return s.File + ":" + strconv.Itoa(s.Line)
}

// String renders "name [file:line]".
func (s Site) String() string {
	return s.Name + " [" + s.Location() + "]"
}

// Unlogged keeps the name but hides the location.
func (s Site) Unlogged() Site {
	return Site{Name: s.Name}
}

// Hidden returns a site where every field is the NOT LOGGED sentinel.
func Hidden() Site {
	return Site{Name: NotLogged}
}

// Caller resolves the function that called Caller, or with skip > 0 the
// frame skip levels above it, passing over every frame for which ignore
// returns true.
//
// If every frame is ignored or the stack is unavailable, Caller degrades to a
// module-only name and reports false. The degraded site comes from the
// outermost frame outside the runtime and reflect packages.
func Caller(skip int, ignore func(runtime.Frame) bool) (Site, bool) {
	pcs := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return fallback(), false
	}

	frames := runtime.CallersFrames(pcs[:n])
	var last runtime.Frame
	for {
		f, more := frames.Next()
		if f.Function != "" {
			if !isRuntimeFrame(f) {
				last = f
			}
			if ignore == nil || !ignore(f) {
				return Site{Name: QualifiedName(f.Function), File: f.File, Line: f.Line, Logged: true}, true
			}
		}
		if !more {
			break
		}
	}
	if last.Function == "" {
		return fallback(), false
	}
	return Site{Name: PackageName(last.Function), File: last.File, Line: last.Line, Logged: true}, false
}

func isRuntimeFrame(f runtime.Frame) bool {
	return strings.HasPrefix(f.Function, "runtime.") || strings.HasPrefix(f.Function, "reflect.")
}

func fallback() Site {
	file := "main"
	if len(os.Args) > 0 && os.Args[0] != "" {
		file = os.Args[0]
	}
	return Site{Name: "main", File: file, Line: 1, Logged: true}
}

// Of resolves the declaration site of the function value fn. It returns the
// zero Site when fn is not a non-nil function.
func Of(fn any) Site {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return Site{}
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return Site{}
	}
	file, line := f.FileLine(f.Entry())
	return Site{Name: QualifiedName(f.Name()), File: file, Line: line, Logged: true}
}

// FuncName returns the raw runtime name of the function value fn.
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return ""
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return ""
}

// QualifiedName converts a runtime function name into a dotted name:
//
//	github.com/a/b/pkg.(*T).Method-fm -> pkg.T.Method
//	github.com/a/b/pkg.outer.func1    -> pkg.outer.func1
//	github.com/a/b/pkg.Map[...]       -> pkg.Map
//	gopkg.in/yaml%2ev3.Marshal         -> yaml.v3.Marshal
func QualifiedName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	name = unescapeDots(name)
	name = strings.TrimSuffix(name, "-fm")
	name = stripBrackets(name)
	name = strings.NewReplacer("(*", "", "(", "", ")", "", ".glob.", ".").Replace(name)
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	return name
}

// PackageName returns the last package path element of a runtime function
// name, with escaped dots restored (yaml%2ev3 -> yaml.v3).
func PackageName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	// The runtime escapes dots in the last path element, so the first
	// literal dot ends the package.
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return unescapeDots(name)
}

func unescapeDots(s string) string {
	return strings.ReplaceAll(s, "%2e", ".")
}

// ShortName returns the final segment of a qualified name.
func ShortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// IsClosure reports whether the final segment of a qualified name is a
// compiler-assigned closure name such as func1, or the 2 of func1.2.
func IsClosure(qualified string) bool {
	short := strings.TrimPrefix(ShortName(qualified), "func")
	if short == "" {
		return false
	}
	for _, r := range short {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TypeName returns "pkg.Type" for t with pointers removed, or "" for unnamed
// types.
func TypeName(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return ""
	}
	name := stripBrackets(t.Name())
	pkg := t.PkgPath()
	if pkg == "" {
		return name
	}
	if i := strings.LastIndex(pkg, "/"); i >= 0 {
		pkg = pkg[i+1:]
	}
	return pkg + "." + name
}

func stripBrackets(s string) string {
	if !strings.Contains(s, "[") {
		return s
	}
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '[':
			depth++
		case r == ']':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
