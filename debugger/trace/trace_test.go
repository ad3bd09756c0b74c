package trace

import (
	"sync"
	"testing"

	"github.com/kdschlosser/angry-debugger/debugger/level"
	"github.com/kdschlosser/angry-debugger/debugger/sink"
)

func TestRoute_String(t *testing.T) {
	tests := []struct {
		route Route
		want  string
	}{
		{RouteDirect, "direct"},
		{RouteBuffered, "buffered"},
		{RouteUnrouted, "unrouted"},
		{Route(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.route.String(); got != tt.want {
			t.Errorf("Route(%d).String() = %q, want %q", int(tt.route), got, tt.want)
		}
	}
}

func TestRecord_Emit_WritesToOwnSinkAtOwnLevel(t *testing.T) {
	t.Cleanup(sink.Reset)

	// GIVEN a sink at ANGRY with a capturing backend
	var mu sync.Mutex
	var got []sink.Entry
	lg := sink.Get("trace.emit")
	lg.SetLevel(level.Angry)
	lg.SetBackend(sink.BackendFunc(func(e sink.Entry) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
	}))

	// WHEN a record is emitted
	Record{Logger: lg, Level: level.Angry, Message: "msg\n"}.Emit()

	// THEN the backend sees it once with the level name attached
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if got[0].Message != "msg\n" || got[0].LevelName != "ANGRY" {
		t.Errorf("unexpected entry %+v", got[0])
	}
}

func TestRecord_Emit_NilLoggerIsNoop(t *testing.T) {
	Record{Level: level.Angry, Message: "x"}.Emit()
}
