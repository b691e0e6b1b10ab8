// Package metrics holds the prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Resolver carries the matching-run metrics.
type Resolver struct {
	QueriesResolved *prometheus.CounterVec
	MatchDuration   prometheus.Histogram
	IndexedTotal    prometheus.Gauge
	SkippedTotal    prometheus.Counter
}

// NewResolver registers and returns the resolver metrics. A nil registerer
// falls back to the default prometheus registry.
func NewResolver(reg prometheus.Registerer) *Resolver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Resolver{
		QueriesResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "corpmatch",
			Name:      "queries_resolved_total",
			Help:      "Queries resolved, by outcome kind",
		}, []string{"kind"}),

		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "corpmatch",
			Name:      "match_duration_seconds",
			Help:      "Per-query match duration",
			Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
		}),

		IndexedTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "corpmatch",
			Name:      "candidates_indexed",
			Help:      "Candidates held by the frozen index",
		}),

		SkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "corpmatch",
			Name:      "candidates_skipped_total",
			Help:      "Malformed candidate-pool entries skipped during load",
		}),
	}

	reg.MustRegister(m.QueriesResolved, m.MatchDuration, m.IndexedTotal, m.SkippedTotal)
	return m
}
