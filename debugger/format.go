package debugger

import (
	"fmt"
	"sort"
	"strings"
)

// Param describes one declared parameter of a traced callable.
type Param struct {
	Name        string
	Default     any
	HasDefault  bool
	KeywordOnly bool
}

// Arg declares a positional parameter without a default.
func Arg(name string) Param {
	return Param{Name: name}
}

// Default declares a positional parameter with a default value.
func Default(name string, v any) Param {
	return Param{Name: name, Default: v, HasDefault: true}
}

// Keyword declares a keyword-only parameter with a default value.
func Keyword(name string, v any) Param {
	return Param{Name: name, Default: v, HasDefault: true, KeywordOnly: true}
}

// Signature is the declared parameter list used to render arguments.
// When Receiver is set the first positional argument is the method receiver
// and is left out of the rendering.
type Signature struct {
	Params   []Param
	Receiver bool
}

// NewSignature returns a signature over params.
func NewSignature(params ...Param) Signature {
	return Signature{Params: params}
}

// Params returns a signature of positional parameters called names.
func Params(names ...string) Signature {
	s := Signature{Params: make([]Param, len(names))}
	for i, n := range names {
		s.Params[i] = Arg(n)
	}
	return s
}

// Format renders bound arguments as "(name=value, ...)".
//
// Declared positional parameters come first, each taking its positional
// argument, else a keyword argument of the same name, else its default;
// parameters with none of these are skipped. Surplus positional arguments
// follow as argN, then keyword-only parameters, then keyword arguments that
// match no parameter in name order.
func (s Signature) Format(positional []any, keyword map[string]any) string {
	if s.Receiver && len(positional) > 0 {
		positional = positional[1:]
	}

	parts := make([]string, 0, len(positional)+len(keyword))
	used := make(map[string]bool, len(keyword))
	add := func(name string, v any) {
		parts = append(parts, name+"="+repr(v))
	}

	n := 0
	for _, p := range s.Params {
		if p.KeywordOnly {
			continue
		}
		switch v, ok := keyword[p.Name]; {
		case n < len(positional):
			add(p.Name, positional[n])
		case ok:
			add(p.Name, v)
			used[p.Name] = true
		case p.HasDefault:
			add(p.Name, p.Default)
		}
		n++
	}
	for i := n; i < len(positional); i++ {
		add(fmt.Sprintf("arg%d", i), positional[i])
	}

	for _, p := range s.Params {
		if !p.KeywordOnly {
			continue
		}
		if v, ok := keyword[p.Name]; ok {
			add(p.Name, v)
			used[p.Name] = true
		} else if p.HasDefault {
			add(p.Name, p.Default)
		}
	}

	extra := make([]string, 0, len(keyword))
	for k := range keyword {
		if !used[k] && !s.declares(k) {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		add(k, keyword[k])
	}

	return "(" + strings.Join(parts, ", ") + ")"
}

func (s Signature) declares(name string) bool {
	for _, p := range s.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// repr renders v in Go syntax. It never panics.
func repr(v any) (s string) {
	if v == nil {
		return "nil"
	}
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("<unrepresentable %T>", v)
		}
	}()
	return fmt.Sprintf("%#v", v)
}

// reprResults renders a call's results: nil for none, the value for one, a
// parenthesised list otherwise.
func reprResults(vals []any) string {
	switch len(vals) {
	case 0:
		return "nil"
	case 1:
		return repr(vals[0])
	}
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = repr(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
