// Package goid identifies and names goroutines.
//
// Trace records are attributed to the goroutine that produced them, and
// logging runs are kept per goroutine. Go does not expose either an id or a
// name, so the id is parsed from the runtime stack header and names are kept
// in a side table.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// mainID is the id the runtime assigns to the goroutine running main.main.
const mainID = 1

var names sync.Map // uint64 -> string

// ID returns the current goroutine's id, or 0 if it cannot be determined.
func ID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// "goroutine 123 [running]:\n..."
	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	buf = buf[len(prefix):]
	end := bytes.IndexByte(buf, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Name returns the name registered for the current goroutine.
func Name() string {
	return NameOf(ID())
}

// NameOf returns the name registered for goroutine id. Unnamed goroutines are
// called "Goroutine-<id>", except the main goroutine which is "MainGoroutine".
func NameOf(id uint64) string {
	if v, ok := names.Load(id); ok {
		return v.(string)
	}
	if id == mainID {
		return "MainGoroutine"
	}
	return "Goroutine-" + strconv.FormatUint(id, 10)
}

// SetName names the current goroutine.
func SetName(name string) {
	names.Store(ID(), name)
}

// ClearName drops the current goroutine's name.
func ClearName() {
	names.Delete(ID())
}

// Go runs fn in a new goroutine named name. The name is dropped when fn
// returns.
func Go(name string, fn func()) {
	go func() {
		SetName(name)
		defer ClearName()
		fn()
	}()
}
