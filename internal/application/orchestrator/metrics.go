package orchestrator

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Confirmation observation paths.
const (
	pathEvent   = "event"
	pathReceipt = "receipt"
	pathPoll    = "poll"
)

// Metrics counts orchestration outcomes.
type Metrics struct {
	battlesStarted  prometheus.Counter
	battlesFinished prometheus.Counter
	confirmations   *prometheus.CounterVec
	watchWarnings   prometheus.Counter
}

// NewMetrics registers orchestrator metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		battlesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arena_bridge",
			Name:      "battles_started_total",
			Help:      "Battles whose start transaction confirmed.",
		}),
		battlesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arena_bridge",
			Name:      "battles_finished_total",
			Help:      "Battles whose resolve transaction confirmed.",
		}),
		confirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "arena_bridge",
			Name:      "confirmations_total",
			Help:      "First-wins confirmations by observation path.",
		}, []string{"path"}),
		watchWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "arena_bridge",
			Name:      "watch_warnings_total",
			Help:      "Non-fatal event subscription and poll failures.",
		}),
	}
	reg.MustRegister(m.battlesStarted, m.battlesFinished, m.confirmations, m.watchWarnings)
	return m
}

func (m *Metrics) confirmed(path string) {
	if m == nil {
		return
	}
	m.confirmations.WithLabelValues(path).Inc()
}

func (m *Metrics) started() {
	if m == nil {
		return
	}
	m.battlesStarted.Inc()
}

func (m *Metrics) finished() {
	if m == nil {
		return
	}
	m.battlesFinished.Inc()
}

func (m *Metrics) watchWarning() {
	if m == nil {
		return
	}
	m.watchWarnings.Inc()
}
