package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdschlosser/angry-debugger/debugger"
	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/internal/testutil"
)

const stars = "********************"

func TestRunDemo_SinglePassThenIsolatedRuns(t *testing.T) {
	// GIVEN every record of the demo captured at ANGRY
	c := testutil.CaptureLogger(t, "cmd", level.Angry)
	cfg := DefaultConfig()
	cfg.Threads = 3
	cfg.DelayScale = 0
	var out bytes.Buffer

	// WHEN the demo runs
	require.NoError(t, runDemo(cfg, &out))

	msgs := c.Messages()
	require.NotEmpty(t, msgs)

	// THEN the single pass wrote records directly, before any run
	firstRun := -1
	for i, m := range msgs {
		if strings.HasPrefix(m, stars+" Start Logging Run ") {
			firstRun = i
			break
		}
	}
	require.Positive(t, firstRun)
	single := strings.Join(msgs[:firstRun], "")
	assert.Contains(t, single, "dst: cmd.demo.functionTest1 [")
	assert.Contains(t, single, "dst: cmd.someClass.propertyTest1 (getter) [")
	assert.Contains(t, single, "dst: cmd.someClass.propertyTest2 (setter) [")
	assert.Contains(t, single, "dst: cmd.someClass.propertyTest3 (deleter) [")
	assert.Contains(t, single, "dst: cmd.someClass.propertyTest4 (deleter) [")
	assert.NotContains(t, single, "cmd.someClass.propertyTest1 (setter)")
	assert.Contains(t, single, "attribute get: cmd.someClass.someAttribute")
	assert.Contains(t, single, `function called: cmd.someClass.methodTest1(arg="argument 1", default_arg="This is a default arg")`)
	assert.Contains(t, single, "dst: cmd.someClass.methodTest2.func1 [")

	// THEN each concurrent pass produced one uninterrupted block
	blocks := 0
	for i := firstRun; i < len(msgs); i++ {
		require.True(t, strings.HasPrefix(msgs[i], stars+" Start Logging Run "), msgs[i])
		name := strings.Fields(strings.TrimPrefix(msgs[i], stars+" Start Logging Run "))[0]
		blocks++
		for i++; !strings.Contains(msgs[i], " Stop Logging Run "); i++ {
			assert.True(t, strings.HasPrefix(msgs[i], "[ANGRY] "+name+"["), msgs[i])
		}
		assert.Contains(t, msgs[i], " Stop Logging Run "+name+" ")
	}
	assert.Equal(t, cfg.Threads+1, blocks)
	assert.Zero(t, debugger.OpenRuns())

	assert.Contains(t, out.String(), "functionTest2 goroutine name: Worker-")
}

func TestRunDemo_ConventionalLevel_NoRecords(t *testing.T) {
	c := testutil.CaptureLogger(t, "cmd", level.Warning)
	cfg := DefaultConfig()
	cfg.Threads = 2
	cfg.DelayScale = 0

	require.NoError(t, runDemo(cfg, &bytes.Buffer{}))
	assert.Empty(t, c.Messages())
}

func TestDemoCommand_EndToEnd(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"demo", "--threads", "2", "--delay-scale", "0", "--level", "ARGS|RETURN", "--color", "never", "--metrics"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	testutil.CaptureLogger(t, "unused", level.NotSet) // resets the sink registry afterwards

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, stderr.String(), "[ARGS | RETURN] Worker-")
	assert.Contains(t, stderr.String(), "Start Logging Run Worker-1 ")
	assert.Contains(t, stdout.String(), `angry_debugger_records_total{route="buffered"}`)
	assert.Contains(t, stdout.String(), "angry_debugger_runs_flushed_total 3")
}
