package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for state transitions.
const (
	OutcomeApplied = "applied"
	OutcomeNoop    = "noop"
)

var (
	// EngagementTransitions counts like/save/comment transitions by kind,
	// direction and whether the ledger actually changed.
	EngagementTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linksphere_engagement_transitions_total",
		Help: "Engagement ledger transitions by kind, direction and outcome",
	}, []string{"kind", "direction", "outcome"})

	// ConnectionMutations counts connect/disconnect calls by outcome.
	ConnectionMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linksphere_connection_mutations_total",
		Help: "Connection graph mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	// CounterDrift reports the number of drifting counters found by the last audit.
	CounterDrift = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "linksphere_counter_drift",
		Help: "Number of post counters that disagreed with their fact rows at the last audit",
	})

	// DatabaseQueryLatency records repository latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linksphere_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// Outcome maps a changed flag to its label.
func Outcome(changed bool) string {
	if changed {
		return OutcomeApplied
	}
	return OutcomeNoop
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
