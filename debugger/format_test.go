package debugger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type loud struct{}

func (loud) GoString() string { panic("no") }

func TestSignature_Format(t *testing.T) {
	fab := NewSignature(Arg("a"), Default("b", 2))

	tests := []struct {
		name string
		sig  Signature
		pos  []any
		kw   map[string]any
		want string
	}{
		{"default filled in", fab, []any{1}, nil, "(a=1, b=2)"},
		{"both positional", fab, []any{1, 3}, nil, "(a=1, b=3)"},
		{"keyword binds declared param", fab, []any{1}, map[string]any{"b": 5}, "(a=1, b=5)"},
		{"missing param skipped", fab, nil, nil, "(b=2)"},
		{"receiver omitted", Signature{Params: []Param{Arg("a")}, Receiver: true}, []any{"self", 1}, nil, "(a=1)"},
		{"surplus positionals", Params("a"), []any{1, 2, 3}, nil, "(a=1, arg1=2, arg2=3)"},
		{
			"keyword-only after positional",
			NewSignature(Arg("a"), Keyword("sep", ","), Keyword("end", "\n")),
			[]any{"x"}, map[string]any{"end": ";"},
			`(a="x", sep=",", end=";")`,
		},
		{"unknown keywords sorted last", Params("a"), []any{1}, map[string]any{"z": 1, "m": nil}, "(a=1, m=nil, z=1)"},
		{"empty", Signature{}, nil, nil, "()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sig.Format(tt.pos, tt.kw))
		})
	}
}

func TestRepr(t *testing.T) {
	assert.Equal(t, "nil", repr(nil))
	assert.Equal(t, `"s"`, repr("s"))
	assert.Equal(t, "[]int{1, 2}", repr([]int{1, 2}))
	assert.NotPanics(t, func() { repr(loud{}) })
}

func TestReprResults(t *testing.T) {
	assert.Equal(t, "nil", reprResults(nil))
	assert.Equal(t, "3", reprResults([]any{3}))
	assert.Equal(t, "nil", reprResults([]any{nil}))
	assert.Equal(t, `(1, "a", nil)`, reprResults([]any{1, "a", nil}))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		sec  float64
		want string
	}{
		{0.0012, "1.200 ms"},
		{0, tooFast},
		{2.5, "2.500 sec"},
		{1, "1.000 sec"},
		{0.9999, "1.000 sec"},
		{0.000_250, "250.000 us"},
		{3e-9, "3.000 ns"},
		{4.2e-13, "420.000 fs"},
		{1e-24, "1.000 ys"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSeconds(tt.sec), "%g", tt.sec)
	}

	assert.Equal(t, "1.200 ms", FormatDuration(1200*time.Microsecond))
	assert.Equal(t, tooFast, FormatDuration(0))
}
