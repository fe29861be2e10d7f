package outfit

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects composition counters. A nil *Metrics records nothing.
type Metrics struct {
	composed          *prometheus.CounterVec
	slotFills         *prometheus.CounterVec
	retrievalFailures *prometheus.CounterVec
	composeDuration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors; call Register to expose them
func NewMetrics() *Metrics {
	return &Metrics{
		composed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outfit",
			Name:      "compositions_total",
			Help:      "Outfit compositions by policy and outcome (full, partial, empty, no_plan)",
		}, []string{"policy", "outcome"}),
		slotFills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outfit",
			Name:      "slot_fills_total",
			Help:      "Slots processed by the cascade stage that filled them (or unfilled)",
		}, []string{"policy", "stage"}),
		retrievalFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "outfit",
			Name:      "retrieval_failures_total",
			Help:      "Catalog queries that failed or timed out while filling a slot",
		}, []string{"policy"}),
		composeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "outfit",
			Name:      "compose_duration_seconds",
			Help:      "Time spent composing one outfit",
			Buckets:   prometheus.DefBuckets,
		}, []string{"policy"}),
	}
}

// Register adds the collectors to reg
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		m.composed,
		m.slotFills,
		m.retrievalFailures,
		m.composeDuration,
	)
}

func (m *Metrics) observeCompose(mode Mode, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.composed.WithLabelValues(string(mode), outcome).Inc()
	m.composeDuration.WithLabelValues(string(mode)).Observe(time.Since(started).Seconds())
}

func (m *Metrics) observeSlot(mode Mode, stage string) {
	if m == nil {
		return
	}
	m.slotFills.WithLabelValues(string(mode), stage).Inc()
}

func (m *Metrics) observeRetrievalFailure(mode Mode) {
	if m == nil {
		return
	}
	m.retrievalFailures.WithLabelValues(string(mode)).Inc()
}
