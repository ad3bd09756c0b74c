package debugger

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterTraceback_DropsCoreFrames(t *testing.T) {
	// GIVEN a traceback with a frame from this package's sources
	tb := strings.Join([]string{
		"goroutine 1 [running]:",
		"main.main()",
		"\t/app/main.go:10 +0x1d",
		"github.com/kdschlosser/angry-debugger/debugger.invoke[...](...)",
		"\t" + coreDir + "/emit.go:120 +0x55",
		"github.com/kdschlosser/angry-debugger/debugger.TestSomething(...)",
		"\t" + coreDir + "/hook_test.go:5 +0x10",
		"created by main.start in goroutine 1",
		"\t/app/start.go:3 +0x20",
		"",
	}, "\n")

	// WHEN filtered
	got := string(FilterTraceback([]byte(tb)))

	// THEN only the core frame is gone
	want := strings.Join([]string{
		"goroutine 1 [running]:",
		"main.main()",
		"\t/app/main.go:10 +0x1d",
		"github.com/kdschlosser/angry-debugger/debugger.TestSomething(...)",
		"\t" + coreDir + "/hook_test.go:5 +0x10",
		"created by main.start in goroutine 1",
		"\t/app/start.go:3 +0x20",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRecoverPanics_Hooked_ReportsFilteredTracebackAndExits(t *testing.T) {
	var buf bytes.Buffer
	SetPanicOutput(&buf)
	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		SetPanicOutput(nil)
		exit = os.Exit
	})

	// WHEN a traced call panics under a deferred RecoverPanics
	func() {
		defer RecoverPanics()
		Func(boom)()
	}()

	// THEN the report omits this package's frames and the process would exit 2
	assert.Equal(t, 2, code)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "panic: kaboom\n\n"), out)
	assert.Contains(t, out, "hook_test.go")
	assert.NotContains(t, out, coreDir+"/emit.go")
	assert.NotContains(t, out, coreDir+"/instrument.go")
	assert.NotContains(t, out, coreDir+"/hook.go")
}

func TestRecoverPanics_Unhooked_Repanics(t *testing.T) {
	UnhookPanics()
	t.Cleanup(HookPanics)

	assert.False(t, PanicsHooked())
	assert.PanicsWithValue(t, "kaboom", func() {
		defer RecoverPanics()
		boom()
	})
}

func TestRecoverPanics_NoPanic_Noop(t *testing.T) {
	assert.True(t, PanicsHooked())
	assert.NotPanics(t, func() {
		defer RecoverPanics()
	})
}
