// Package level defines the verbosity lattice used by the call tracer.
//
// Five independent capture flags are layered above the conventional
// leveled-logging severities. Flags combine with bitwise OR, and every one of
// the 31 non-empty unions carries a stable display name so that a record's
// header can say exactly what was captured.
package level

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Level is a logging level. Values at or above TimeIt are interpreted as a
// bitmask of capture flags.
type Level int

// Conventional severities.
const (
	NotSet   Level = 0
	Debug    Level = 10
	Info     Level = 20
	Warning  Level = 30
	Error    Level = 40
	Critical Level = 50
)

// Capture flags.
const (
	// TimeIt times each traced call.
	TimeIt Level = 128
	// Args records the bound arguments.
	Args Level = 256
	// Return records the return value.
	Return Level = 512
	// CallFrom records where the call was made from.
	CallFrom Level = 1024
	// CallTo records where the called code is declared.
	CallTo Level = 2048
	// Angry is the union of all five flags.
	Angry Level = 3968
)

// ErrUnknownLevel is returned by Parse for input that names no level.
var ErrUnknownLevel = errors.New("unknown level")

// flag order is heaviest first; names are joined in this order.
var flags = []struct {
	level Level
	name  string
}{
	{TimeIt, "TIME_IT"},
	{Args, "ARGS"},
	{Return, "RETURN"},
	{CallFrom, "CALL_FROM"},
	{CallTo, "CALL_TO"},
}

const separator = " | "

var registry = struct {
	mu     sync.RWMutex
	names  map[Level]string
	values map[string]Level
}{
	names:  make(map[Level]string),
	values: make(map[string]Level),
}

func init() {
	RegisterDefaults()
}

// RegisterDefaults names the conventional severities and every non-empty
// union of the capture flags. Calling it again is harmless.
func RegisterDefaults() {
	Register(NotSet, "NOTSET")
	Register(Debug, "DEBUG")
	Register(Info, "INFO")
	Register(Warning, "WARNING")
	Register(Error, "ERROR")
	Register(Critical, "CRITICAL")

	for mask := 1; mask < 1<<len(flags); mask++ {
		var l Level
		parts := make([]string, 0, len(flags))
		for i, f := range flags {
			if mask&(1<<i) != 0 {
				l |= f.level
				parts = append(parts, f.name)
			}
		}
		if l == Angry {
			Register(l, "ANGRY")
			continue
		}
		Register(l, strings.Join(parts, separator))
	}
}

// Register associates name with l. A later registration for the same level
// replaces the earlier name.
func Register(l Level, name string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	if old, ok := registry.names[l]; ok {
		delete(registry.values, strings.ToUpper(old))
	}
	registry.names[l] = name
	registry.values[strings.ToUpper(name)] = l
}

// Name returns the registered name of l, or "Level <n>" when l has none.
func Name(l Level) string {
	registry.mu.RLock()
	name, ok := registry.names[l]
	registry.mu.RUnlock()
	if ok {
		return name
	}
	return "Level " + strconv.Itoa(int(l))
}

// String implements fmt.Stringer.
func (l Level) String() string {
	return Name(l)
}

// Has reports whether flag is active at level l.
//
// The test is l|flag == l: every bit of flag must already be set in l.
func (l Level) Has(flag Level) bool {
	return l|flag == l
}

// Flags returns the five capture flags, heaviest first.
func Flags() []Level {
	out := make([]Level, len(flags))
	for i, f := range flags {
		out[i] = f.level
	}
	return out
}

// Composites returns every registered non-empty union of capture flags in
// ascending order.
func Composites() []Level {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	out := make([]Level, 0, 1<<len(flags))
	for l := range registry.names {
		if l != NotSet && l|Angry == Angry {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Parse converts s to a Level. It accepts a registered name in any case
// ("ANGRY", "warning"), a '|'-separated list of names ("ARGS|RETURN"), or a
// decimal integer.
func Parse(s string) (Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotSet, fmt.Errorf("parse level %q: %w", s, ErrUnknownLevel)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Level(n), nil
	}

	registry.mu.RLock()
	defer registry.mu.RUnlock()

	if l, ok := registry.values[strings.ToUpper(s)]; ok {
		return l, nil
	}

	var l Level
	for _, part := range strings.Split(s, "|") {
		part = strings.ToUpper(strings.TrimSpace(part))
		v, ok := registry.values[part]
		if !ok {
			return NotSet, fmt.Errorf("parse level %q: %w", s, ErrUnknownLevel)
		}
		l |= v
	}
	return l, nil
}
