// Package sink is the leveled logging facility trace records are written to.
//
// Loggers live in a process-wide registry keyed by dotted names. A logger
// without an explicit level inherits the nearest ancestor's, and the root
// defaults to level.Warning, which enables none of the capture flags. Records
// are handed to the nearest Backend up the hierarchy; the root's default
// backend is logrus.
package sink

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kdschlosser/angry-debugger/debugger/level"
)

// Entry is one record handed to a Backend.
type Entry struct {
	Time      time.Time
	Logger    string
	Level     level.Level
	LevelName string
	Message   string
}

// Backend writes entries somewhere. Implementations must be safe for
// concurrent use.
type Backend interface {
	Write(e Entry)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(e Entry)

// Write calls f(e).
func (f BackendFunc) Write(e Entry) { f(e) }

// Logger is a named, leveled sink.
type Logger struct {
	name    string
	parent  *Logger
	level   atomic.Int64
	backend atomic.Pointer[backendBox]
}

type backendBox struct{ b Backend }

var registry = struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}{
	loggers: make(map[string]*Logger),
}

var root = newRoot()

func newRoot() *Logger {
	l := &Logger{name: ""}
	l.level.Store(int64(level.Warning))
	l.backend.Store(&backendBox{b: defaultBackend()})
	return l
}

// Root returns the root logger.
func Root() *Logger {
	return root
}

// Get returns the logger called name, creating it and any missing ancestors.
// The empty name is the root. Repeated calls return the same logger.
func Get(name string) *Logger {
	if name == "" {
		return root
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	return getLocked(name)
}

func getLocked(name string) *Logger {
	if l, ok := registry.loggers[name]; ok {
		return l
	}
	parent := root
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		parent = getLocked(name[:i])
	}
	l := &Logger{name: name, parent: parent}
	registry.loggers[name] = l
	return l
}

// Name returns the logger's dotted name; the root's is "root".
func (l *Logger) Name() string {
	if l.name == "" {
		return "root"
	}
	return l.name
}

// SetLevel sets the logger's own level. level.NotSet defers to the parent.
func (l *Logger) SetLevel(lvl level.Level) {
	l.level.Store(int64(lvl))
}

// Level returns the logger's own level, which may be level.NotSet.
func (l *Logger) Level() level.Level {
	return level.Level(l.level.Load())
}

// EffectiveLevel returns the first level that is set walking from l to the
// root.
func (l *Logger) EffectiveLevel() level.Level {
	for cur := l; cur != nil; cur = cur.parent {
		if lvl := cur.Level(); lvl != level.NotSet {
			return lvl
		}
	}
	return level.NotSet
}

// IsEnabledFor reports whether a record at lvl would be written.
func (l *Logger) IsEnabledFor(lvl level.Level) bool {
	return lvl >= l.EffectiveLevel()
}

// SetBackend replaces the logger's backend. A nil backend makes the logger
// use its parent's.
func (l *Logger) SetBackend(b Backend) {
	if b == nil {
		if l.parent == nil {
			b = defaultBackend()
		} else {
			l.backend.Store(nil)
			return
		}
	}
	l.backend.Store(&backendBox{b: b})
}

func (l *Logger) resolveBackend() Backend {
	for cur := l; cur != nil; cur = cur.parent {
		if box := cur.backend.Load(); box != nil {
			return box.b
		}
	}
	return defaultBackend()
}

// Log writes msg at lvl unless lvl is below the effective level.
func (l *Logger) Log(lvl level.Level, msg string) {
	if !l.IsEnabledFor(lvl) {
		return
	}
	l.resolveBackend().Write(Entry{
		Time:      time.Now(),
		Logger:    l.Name(),
		Level:     lvl,
		LevelName: level.Name(lvl),
		Message:   msg,
	})
}
