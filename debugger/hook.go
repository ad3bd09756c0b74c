package debugger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
)

var panics = struct {
	mu     sync.Mutex
	hooked bool
	out    io.Writer
}{
	hooked: true,
	out:    os.Stderr,
}

// exit terminates the process after a hooked panic has been reported.
var exit = os.Exit

// HookPanics makes RecoverPanics report panics with a filtered traceback.
// This is the default.
func HookPanics() {
	panics.mu.Lock()
	defer panics.mu.Unlock()
	panics.hooked = true
}

// UnhookPanics makes RecoverPanics re-panic, leaving reporting to the runtime.
func UnhookPanics() {
	panics.mu.Lock()
	defer panics.mu.Unlock()
	panics.hooked = false
}

// PanicsHooked reports whether panic reporting is hooked.
func PanicsHooked() bool {
	panics.mu.Lock()
	defer panics.mu.Unlock()
	return panics.hooked
}

// SetPanicOutput redirects hooked panic reports. nil restores os.Stderr.
func SetPanicOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	panics.mu.Lock()
	defer panics.mu.Unlock()
	panics.out = w
}

// RecoverPanics must be deferred directly, typically first thing in main or
// at the top of a goroutine:
//
//	defer debugger.RecoverPanics()
//
// When hooked it prints the panic value and a traceback without this
// package's frames, then exits with status 2. When unhooked it re-panics.
func RecoverPanics() {
	r := recover()
	if r == nil {
		return
	}

	panics.mu.Lock()
	hooked, out := panics.hooked, panics.out
	panics.mu.Unlock()
	if !hooked {
		panic(r)
	}

	fmt.Fprintf(out, "panic: %v\n\n", r)
	out.Write(FilterTraceback(debug.Stack()))
	exit(2)
}

// FilterTraceback removes every frame whose source is one of this package's
// non-test files from a goroutine traceback in runtime format.
func FilterTraceback(tb []byte) []byte {
	lines := strings.Split(string(tb), "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "\t") || i+1 >= len(lines) || !strings.HasPrefix(lines[i+1], "\t") {
			out = append(out, line)
			continue
		}
		// function line followed by its "\tfile:line +0x.." line
		if !isCoreFile(frameFile(lines[i+1])) {
			out = append(out, line, lines[i+1])
		}
		i++
	}
	return []byte(strings.Join(out, "\n"))
}

func frameFile(line string) string {
	line = strings.TrimPrefix(line, "\t")
	if sp := strings.LastIndexByte(line, ' '); sp >= 0 && strings.HasPrefix(line[sp+1:], "+0x") {
		line = line[:sp]
	}
	if c := strings.LastIndexByte(line, ':'); c >= 0 {
		line = line[:c]
	}
	return line
}
