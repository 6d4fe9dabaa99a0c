package sync

import "github.com/prometheus/client_golang/prometheus"

const (
	stepOutcome = "outcome"
	stepEvents  = "events"
	stepStats   = "stats"
)

// Metrics counts sync outcomes. Nil-safe: a nil *Metrics disables counting.
type Metrics struct {
	synced   *prometheus.CounterVec
	failures *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		synced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena_bridge",
			Name:      "store_syncs_total",
			Help:      "Completed store syncs by phase.",
		}, []string{"phase"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena_bridge",
			Name:      "store_sync_failures_total",
			Help:      "Store sync sub-step failures by step.",
		}, []string{"step"}),
	}
	reg.MustRegister(m.synced, m.failures)
	return m
}

func (m *Metrics) completed(phase string) {
	if m == nil {
		return
	}
	m.synced.WithLabelValues(phase).Inc()
}

func (m *Metrics) failed(step string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(step).Inc()
}
