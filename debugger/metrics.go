package debugger

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kdschlosser/angry-debugger/debugger/trace"
)

// Metrics holds the tracer's Prometheus collectors.
type Metrics struct {
	RecordsTotal *prometheus.CounterVec
	RunsFlushed  prometheus.Counter
	RunRecords   prometheus.Histogram
	RunDuration  prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg. Like
// promauto it panics if they are already registered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecordsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "angry_debugger_records_total",
				Help: "Trace records produced, by route",
			},
			[]string{"route"},
		),
		RunsFlushed: f.NewCounter(
			prometheus.CounterOpts{
				Name: "angry_debugger_runs_flushed_total",
				Help: "Logging runs flushed with at least one record",
			},
		),
		RunRecords: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "angry_debugger_run_records",
				Help:    "Records per flushed logging run",
				Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
			},
		),
		RunDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "angry_debugger_run_duration_seconds",
				Help:    "Wall time of flushed logging runs in seconds",
				Buckets: []float64{.0001, .001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
	}
}

var activeMetrics atomic.Pointer[Metrics]

// SetMetrics installs m as the tracer's metrics. nil disables collection.
func SetMetrics(m *Metrics) {
	activeMetrics.Store(m)
}

func currentMetrics() *Metrics {
	return activeMetrics.Load()
}

func (m *Metrics) recordRouted(r trace.Route) {
	if m == nil {
		return
	}
	m.RecordsTotal.WithLabelValues(r.String()).Inc()
}

func (m *Metrics) observeRun(s *trace.RunSummary) {
	if m == nil {
		return
	}
	m.RunsFlushed.Inc()
	m.RunRecords.Observe(float64(s.Records))
	m.RunDuration.Observe(s.Duration.Seconds())
}
