package debugger

import (
	"reflect"
	"sync"
	"time"

	"github.com/kdschlosser/angry-debugger/debugger/goid"
	"github.com/kdschlosser/angry-debugger/debugger/trace"
)

// runs is the process-wide logging run state. It starts empty; a goroutine's
// entries are created by BeginRun and removed by EndRun. A goroutine that
// exits with a run open leaves its buffer behind.
var runs = struct {
	mu       sync.Mutex
	buffers  map[uint64][]trace.Record
	started  map[uint64]time.Time
	unrouted []trace.Record
}{
	buffers: make(map[uint64][]trace.Record),
	started: make(map[uint64]time.Time),
}

// BeginRun opens a logging run for the calling goroutine. A run that is
// already open is flushed first.
func BeginRun() {
	id := goid.ID()

	runs.mu.Lock()
	defer runs.mu.Unlock()

	drainUnroutedLocked()
	if recs := runs.buffers[id]; len(recs) > 0 {
		flushLocked(id, recs)
	}
	runs.buffers[id] = make([]trace.Record, 0)
	runs.started[id] = time.Now()
}

// EndRun flushes and closes the calling goroutine's run. It does nothing
// beyond draining queued records when no run is open.
func EndRun() {
	id := goid.ID()

	runs.mu.Lock()
	defer runs.mu.Unlock()

	drainUnroutedLocked()
	recs, ok := runs.buffers[id]
	if !ok {
		return
	}
	if len(recs) > 0 {
		flushLocked(id, recs)
	}
	delete(runs.buffers, id)
	delete(runs.started, id)
}

// InRun runs fn inside a logging run. A panic in fn leaves the run open.
func InRun(fn func()) {
	BeginRun()
	fn()
	EndRun()
}

// LoggingRun wraps fn so that every call is bracketed by BeginRun and EndRun.
// A panic in fn leaves the run open.
// LoggingRun panics if fn is not a non-nil function.
func LoggingRun[F any](fn F) F {
	v := funcValue(fn)
	wrapped := reflect.MakeFunc(v.Type(), func(in []reflect.Value) []reflect.Value {
		BeginRun()
		out := callValue(v, in)
		EndRun()
		return out
	})
	return wrapped.Interface().(F)
}

// OpenRuns returns the number of goroutines with an open run.
func OpenRuns() int {
	runs.mu.Lock()
	defer runs.mu.Unlock()
	return len(runs.buffers)
}

// route delivers a finished record: into the producer's open run, else into
// the unrouted queue while any run is open, else straight to its sink.
func route(rec trace.Record) trace.Route {
	id := goid.ID()

	runs.mu.Lock()
	defer runs.mu.Unlock()

	var r trace.Route
	if buf, ok := runs.buffers[id]; ok {
		runs.buffers[id] = append(buf, rec)
		r = trace.RouteBuffered
	} else if len(runs.buffers) > 0 {
		runs.unrouted = append(runs.unrouted, rec)
		r = trace.RouteUnrouted
	} else {
		rec.Emit()
		r = trace.RouteDirect
	}
	currentMetrics().recordRouted(r)
	return r
}

func drainUnroutedLocked() {
	for _, rec := range runs.unrouted {
		rec.Emit()
	}
	runs.unrouted = nil
}

// flushLocked writes one run block. The start banner rides on the first
// record's sink and level, the closing duration and stop banner on the
// last's.
func flushLocked(id uint64, recs []trace.Record) {
	thread := goid.NameOf(id)
	elapsed := time.Since(runs.started[id])
	first, last := recs[0], recs[len(recs)-1]

	trace.Record{Logger: first.Logger, Level: first.Level, Message: banner("Start", thread)}.Emit()
	for _, rec := range recs {
		rec.Emit()
	}
	trace.Record{
		Logger:  last.Logger,
		Level:   last.Level,
		Message: durationLine(FormatDuration(elapsed)) + banner("Stop", thread),
	}.Emit()

	currentMetrics().observeRun(trace.Summarize(thread, recs, elapsed))
}
