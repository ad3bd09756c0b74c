package debugger

import (
	"fmt"
	"reflect"

	"github.com/kdschlosser/angry-debugger/debugger/callsite"
	"github.com/kdschlosser/angry-debugger/debugger/sink"
)

// Option configures a wrapper.
type Option func(*options)

type options struct {
	logger *sink.Logger
	name   string
	sig    *Signature
}

// WithLogger binds the wrapper to l. A nil logger keeps the default, which
// is the logger named after the wrapped function's package.
func WithLogger(l *sink.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithName overrides the qualified name shown in records.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithParams names the wrapped function's parameters, receiver excluded.
func WithParams(names ...string) Option {
	return WithSignature(Params(names...))
}

// WithSignature sets the declared parameters used to render arguments.
func WithSignature(sig Signature) Option {
	return func(o *options) { o.sig = &sig }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func funcValue(fn any) reflect.Value {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		panic(fmt.Sprintf("debugger: cannot wrap %T: not a non-nil function", fn))
	}
	return v
}

// newTarget resolves the static metadata of fn. receiver reports whether the
// first parameter is a method receiver.
func newTarget(fn any, v reflect.Value, suffix string, receiver bool, opts []Option) *target {
	o := collect(opts)
	site := callsite.Of(fn)

	t := &target{
		logger: o.logger,
		pkg:    callsite.PackageName(callsite.FuncName(fn)),
		name:   site.Name,
		site:   site,
		suffix: suffix,
	}
	if o.name != "" {
		t.name = o.name
	}
	if t.logger == nil {
		t.logger = sink.Get(t.pkg)
	}
	if o.sig != nil {
		t.sig = *o.sig
	} else {
		t.sig = positionalSignature(v.Type(), receiver)
	}
	t.sig.Receiver = t.sig.Receiver || receiver
	return t
}

// positionalSignature names every parameter argN.
func positionalSignature(typ reflect.Type, receiver bool) Signature {
	first := 0
	if receiver {
		first = 1
	}
	names := make([]string, 0, typ.NumIn())
	for i := first; i < typ.NumIn(); i++ {
		names = append(names, fmt.Sprintf("arg%d", i-first))
	}
	return Params(names...)
}

func callValue(v reflect.Value, in []reflect.Value) []reflect.Value {
	if v.Type().IsVariadic() {
		return v.CallSlice(in)
	}
	return v.Call(in)
}

func interfaces(vals []reflect.Value) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		if v.IsValid() && v.CanInterface() {
			out[i] = v.Interface()
		}
	}
	return out
}

func makeTraced[F any](t *target, v reflect.Value, receiver bool) F {
	wrapped := reflect.MakeFunc(v.Type(), func(in []reflect.Value) []reflect.Value {
		bind := func() invocation {
			inv := invocation{args: interfaces(in)}
			if receiver && len(in) > 0 {
				inv.receiver = in[0]
			}
			return inv
		}
		call := func() []reflect.Value {
			return callValue(v, in)
		}
		return invoke(t, bind, call, interfaces)
	})
	return wrapped.Interface().(F)
}

// Func wraps the function fn. The returned function has fn's exact type and
// behaviour; each call is traced according to the sink's level.
// Func panics if fn is not a non-nil function.
func Func[F any](fn F, opts ...Option) F {
	v := funcValue(fn)
	return makeTraced[F](newTarget(fn, v, "", false, opts), v, false)
}

// Method wraps a method expression such as (*Store).Put, or any function
// whose first parameter is the receiver. The receiver is left out of the
// rendered arguments and its dynamic type names the call.
func Method[F any](fn F, opts ...Option) F {
	v := funcValue(fn)
	if v.Type().NumIn() == 0 {
		panic(fmt.Sprintf("debugger: cannot wrap %T as a method: no receiver parameter", fn))
	}
	return makeTraced[F](newTarget(fn, v, "", true, opts), v, true)
}

// Class wraps a constructor. Calls are traced under the qualified name of
// the constructed type, its first result.
func Class[F any](ctor F, opts ...Option) F {
	v := funcValue(ctor)
	name := ""
	if v.Type().NumOut() > 0 {
		name = callsite.TypeName(v.Type().Out(0))
	}
	if name != "" {
		opts = append([]Option{WithName(name)}, opts...)
	}
	return makeTraced[F](newTarget(ctor, v, "", false, opts), v, false)
}

// Callable is a function taking positional and keyword arguments.
type Callable func(args []any, kwargs map[string]any) (any, error)

type callResult struct {
	v   any
	err error
}

// Dynamic wraps fn, rendering its arguments against sig so that keyword
// arguments and defaults show up in records. If sig.Receiver is set, args[0]
// is the receiver.
func Dynamic(fn Callable, sig Signature, opts ...Option) Callable {
	v := funcValue(fn)
	t := newTarget(fn, v, "", false, append([]Option{WithSignature(sig)}, opts...))

	return func(args []any, kwargs map[string]any) (any, error) {
		bind := func() invocation {
			inv := invocation{args: args, kwargs: kwargs}
			if t.sig.Receiver && len(args) > 0 && args[0] != nil {
				inv.receiver = reflect.ValueOf(args[0])
			}
			return inv
		}
		call := func() callResult {
			v, err := fn(args, kwargs)
			return callResult{v: v, err: err}
		}
		results := func(r callResult) []any {
			if r.err == nil {
				return []any{r.v}
			}
			return []any{r.v, r.err}
		}
		r := invoke(t, bind, call, results)
		return r.v, r.err
	}
}
