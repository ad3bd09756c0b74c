// Package testutil provides shared test infrastructure: a capturing sink
// backend and golden-file loading.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/debugger/sink"
)

// Capture is a sink backend that keeps every entry in memory.
type Capture struct {
	mu      sync.Mutex
	entries []sink.Entry
}

// Write implements sink.Backend.
func (c *Capture) Write(e sink.Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, e)
}

// Entries returns a copy of the captured entries in arrival order.
func (c *Capture) Entries() []sink.Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sink.Entry(nil), c.entries...)
}

// Messages returns the captured messages in arrival order.
func (c *Capture) Messages() []string {
	entries := c.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// Reset drops everything captured so far.
func (c *Capture) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
}

// CaptureLogger routes the logger called name into a fresh Capture at lvl.
// The sink registry is reset when the test ends.
func CaptureLogger(t testing.TB, name string, lvl level.Level) *Capture {
	t.Helper()
	c := &Capture{}
	l := sink.Get(name)
	l.SetLevel(lvl)
	l.SetBackend(c)
	t.Cleanup(sink.Reset)
	return c
}

// Golden returns the contents of testdata/<name> at the repository root.
// The path is resolved relative to this source file: internal/testutil/ → testdata/.
func Golden(t testing.TB, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden file %s: %v", name, err)
	}
	return string(data)
}
