// Package metrics holds the Prometheus collectors for pathway searches and
// reference data reloads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rxnpath"

// Search outcomes used as the "outcome" label.
const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeTimeout = "timeout"
	OutcomeError   = "error"
)

// Search groups the search and reload collectors. A nil *Search is valid and
// records nothing.
type Search struct {
	searches   *prometheus.CounterVec
	duration   prometheus.Histogram
	candidates prometheus.Histogram
	results    prometheus.Histogram
	nodes      prometheus.Gauge
	edges      prometheus.Gauge
	reloads    *prometheus.CounterVec
}

// NewSearch registers the collectors with reg, or the default registerer
// when reg is nil.
func NewSearch(reg prometheus.Registerer) *Search {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Search{
		searches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Pathway searches by outcome.",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of pathway searches.",
			Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_candidates",
			Help:      "Distinct pathways that passed the filter before truncation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		results: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Pathways returned per search.",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		}),
		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_reactions",
			Help:      "Reactions in the loaded network.",
		}),
		edges: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "network_links",
			Help:      "Directed links in the loaded network.",
		}),
		reloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_reloads_total",
			Help:      "Reference data reloads by outcome.",
		}, []string{"outcome"}),
	}
}

// ObserveSearch records one finished search.
func (m *Search) ObserveSearch(outcome string, elapsed time.Duration, candidates, results int) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if outcome == OutcomeOK {
		m.candidates.Observe(float64(candidates))
		m.results.Observe(float64(results))
	}
}

// SetNetworkSize publishes the size of the current graph.
func (m *Search) SetNetworkSize(reactions, links int) {
	if m == nil {
		return
	}
	m.nodes.Set(float64(reactions))
	m.edges.Set(float64(links))
}

// ObserveReload counts a reference data reload attempt.
func (m *Search) ObserveReload(err error) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	m.reloads.WithLabelValues(outcome).Inc()
}
