package debugger

import "errors"

var (
	// ErrNoGetter is returned by Property.Get when no getter is defined.
	ErrNoGetter = errors.New("property has no getter")
	// ErrNoSetter is returned by Property.Set when no setter is defined.
	ErrNoSetter = errors.New("property has no setter")
	// ErrNoDeleter is returned by Property.Delete when no deleter is defined.
	ErrNoDeleter = errors.New("property has no deleter")
)

// Property is a managed value of type T on receivers of type R, defined by
// any subset of getter, setter and deleter.
type Property[R, T any] struct {
	Getter  func(R) T
	Setter  func(R, T)
	Deleter func(R)

	GetterDoc  string
	SetterDoc  string
	DeleterDoc string
}

// Get calls the getter.
func (p Property[R, T]) Get(r R) (T, error) {
	if p.Getter == nil {
		var zero T
		return zero, ErrNoGetter
	}
	return p.Getter(r), nil
}

// Set calls the setter.
func (p Property[R, T]) Set(r R, v T) error {
	if p.Setter == nil {
		return ErrNoSetter
	}
	p.Setter(r, v)
	return nil
}

// Delete calls the deleter.
func (p Property[R, T]) Delete(r R) error {
	if p.Deleter == nil {
		return ErrNoDeleter
	}
	p.Deleter(r)
	return nil
}

// Doc returns the first non-empty doc string of getter, setter and deleter.
func (p Property[R, T]) Doc() string {
	for _, d := range []string{p.GetterDoc, p.SetterDoc, p.DeleterDoc} {
		if d != "" {
			return d
		}
	}
	return ""
}

// Accessor selects property accessors.
type Accessor uint8

const (
	TraceGetter Accessor = 1 << iota
	TraceSetter
	TraceDeleter

	TraceAll = TraceGetter | TraceSetter | TraceDeleter
)

// TraceProperty returns a copy of p in which only the accessors selected by
// which are traced. Other accessors are carried over untouched, as are the
// doc strings.
func TraceProperty[R, T any](p Property[R, T], which Accessor, opts ...Option) Property[R, T] {
	out := p
	if which&TraceGetter != 0 && p.Getter != nil {
		out.Getter = accessor(p.Getter, " (getter)", opts)
	}
	if which&TraceSetter != 0 && p.Setter != nil {
		out.Setter = accessor(p.Setter, " (setter)", append([]Option{WithParams("value")}, opts...))
	}
	if which&TraceDeleter != 0 && p.Deleter != nil {
		out.Deleter = accessor(p.Deleter, " (deleter)", opts)
	}
	return out
}

func accessor[F any](fn F, suffix string, opts []Option) F {
	v := funcValue(fn)
	return makeTraced[F](newTarget(fn, v, suffix, true, opts), v, true)
}
