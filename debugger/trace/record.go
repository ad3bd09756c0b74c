// Package trace holds the data produced by the call tracer: formatted records
// bound to the sink they target, and summaries of flushed logging runs.
// It depends only on level and sink; it knows nothing about wrapping.
package trace

import (
	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/debugger/sink"
)

// Record is one formatted trace message plus the sink and level it targets.
// Records are never modified after creation.
type Record struct {
	Logger  *sink.Logger
	Level   level.Level
	Message string
}

// Emit writes the record to its sink at its level.
func (r Record) Emit() {
	if r.Logger == nil {
		return
	}
	r.Logger.Log(r.Level, r.Message)
}
