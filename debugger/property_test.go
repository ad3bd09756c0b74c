package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/internal/testutil"
)

type thing struct {
	name    string
	cleared bool
}

func (t *thing) Name() string     { return t.name }
func (t *thing) SetName(v string) { t.name = v }
func (t *thing) Clear()           { t.cleared = true }

func thingName() Property[*thing, string] {
	return Property[*thing, string]{
		Getter:    (*thing).Name,
		Setter:    (*thing).SetName,
		Deleter:   (*thing).Clear,
		SetterDoc: "sets the name",
	}
}

func TestTraceProperty_SetterOnly(t *testing.T) {
	// GIVEN a property whose setter alone is traced
	c := testutil.CaptureLogger(t, "debugger", level.Args)
	p := TraceProperty(thingName(), TraceSetter)
	obj := &thing{name: "a"}

	// WHEN the getter and deleter are used
	v, err := p.Get(obj)
	require.NoError(t, err)
	require.NoError(t, p.Delete(obj))

	// THEN they behave normally and write nothing
	assert.Equal(t, "a", v)
	assert.True(t, obj.cleared)
	assert.Empty(t, c.Messages())

	// WHEN the setter is used
	require.NoError(t, p.Set(obj, "x"))

	// THEN exactly one record is written
	assert.Equal(t, "x", obj.name)
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "dst: debugger.thing.SetName (setter) [NOT LOGGED:NOT LOGGED]")
	assert.Contains(t, msgs[0], `function called: debugger.thing.SetName(value="x")`)
	assert.Equal(t, "sets the name", p.Doc())
}

func TestTraceProperty_AllAccessors(t *testing.T) {
	c := testutil.CaptureLogger(t, "debugger", level.Args|level.Return)
	p := TraceProperty(thingName(), TraceAll)
	obj := &thing{}

	require.NoError(t, p.Set(obj, "v"))
	got, err := p.Get(obj)
	require.NoError(t, err)
	require.NoError(t, p.Delete(obj))

	assert.Equal(t, "v", got)
	msgs := c.Messages()
	require.Len(t, msgs, 3)
	assert.Contains(t, msgs[0], "dst: debugger.thing.SetName (setter) [")
	assert.Contains(t, msgs[1], "dst: debugger.thing.Name (getter) [")
	assert.Contains(t, msgs[1], "function called: debugger.thing.Name()\n")
	assert.Contains(t, msgs[1], `debugger.thing.Name => "v"`)
	assert.Contains(t, msgs[2], "dst: debugger.thing.Clear (deleter) [")
}

func TestProperty_MissingAccessors(t *testing.T) {
	p := TraceProperty(Property[*thing, string]{}, TraceAll)

	_, err := p.Get(&thing{})
	assert.ErrorIs(t, err, ErrNoGetter)
	assert.ErrorIs(t, p.Set(&thing{}, "x"), ErrNoSetter)
	assert.ErrorIs(t, p.Delete(&thing{}), ErrNoDeleter)
	assert.Nil(t, p.Getter)
}

func TestProperty_DocPrecedence(t *testing.T) {
	tests := []struct {
		name string
		p    Property[*thing, int]
		want string
	}{
		{"getter wins", Property[*thing, int]{GetterDoc: "g", SetterDoc: "s", DeleterDoc: "d"}, "g"},
		{"then setter", Property[*thing, int]{SetterDoc: "s", DeleterDoc: "d"}, "s"},
		{"then deleter", Property[*thing, int]{DeleterDoc: "d"}, "d"},
		{"none", Property[*thing, int]{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TraceProperty(tt.p, TraceAll).Doc())
		})
	}
}

func TestTraceProperty_ClosureAccessor_KeepsDeclaredName(t *testing.T) {
	c := testutil.CaptureLogger(t, "debugger", level.Args)

	// GIVEN a getter written as a closure and no explicit name
	p := TraceProperty(Property[*thing, string]{
		Getter: func(th *thing) string { return th.name },
	}, TraceGetter)

	// WHEN read
	_, err := p.Get(&thing{name: "n"})

	// THEN the closure keeps its declared name instead of the receiver type's
	require.NoError(t, err)
	msgs := c.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "function called: debugger.TestTraceProperty_ClosureAccessor_KeepsDeclaredName.func1()\n")
	assert.NotContains(t, msgs[0], "debugger.thing.func1")
}
