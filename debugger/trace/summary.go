package trace

import (
	"time"

	"github.com/kdschlosser/angry-debugger/debugger/level"
)

// RunSummary aggregates the records of one flushed logging run.
type RunSummary struct {
	Thread   string
	Records  int
	Loggers  int                 // distinct sinks written to
	Levels   map[level.Level]int // level -> record count
	Duration time.Duration
}

// Summarize computes a RunSummary for the records of one run.
// Safe for nil or empty input (returns zero-value counts).
func Summarize(thread string, records []Record, elapsed time.Duration) *RunSummary {
	summary := &RunSummary{
		Thread:   thread,
		Levels:   make(map[level.Level]int),
		Duration: elapsed,
	}

	seen := make(map[string]struct{})
	for _, r := range records {
		summary.Records++
		summary.Levels[r.Level]++
		if r.Logger != nil {
			seen[r.Logger.Name()] = struct{}{}
		}
	}
	summary.Loggers = len(seen)

	return summary
}
