// Package observability exposes Prometheus metrics for the expansion
// engine and the document server.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tessera/pkg/domain"
)

// Metrics holds every collector tessera registers. Collectors are labeled
// narrowly (outcome, diagnostic kind) to keep cardinality bounded.
type Metrics struct {
	Expansions  *prometheus.CounterVec
	Diagnostics *prometheus.CounterVec
	Duration    prometheus.Histogram
	CacheHits   *prometheus.CounterVec
}

// New creates the tessera collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Expansions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tessera_expansions_total",
				Help: "Documents expanded, labeled by outcome (clean or degraded).",
			},
			[]string{"outcome"},
		),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tessera_diagnostics_total",
				Help: "Diagnostics produced during expansion, labeled by kind.",
			},
			[]string{"kind"},
		),
		Duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tessera_expansion_duration_seconds",
				Help:    "Wall time spent expanding a document.",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tessera_cache_requests_total",
				Help: "Rendered page cache lookups, labeled by result (hit or miss).",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.Expansions, m.Diagnostics, m.Duration, m.CacheHits)
	return m
}

// ObserveExpansion records the outcome and diagnostics of one expansion.
func (m *Metrics) ObserveExpansion(exp domain.Expansion, seconds float64) {
	outcome := "clean"
	if exp.Degraded() {
		outcome = "degraded"
	}
	m.Expansions.WithLabelValues(outcome).Inc()
	m.Duration.Observe(seconds)
	for _, diag := range exp.Diagnostics {
		m.Diagnostics.WithLabelValues(string(diag.Kind)).Inc()
	}
}
