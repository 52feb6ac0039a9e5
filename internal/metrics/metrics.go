// Package metrics registers the search server's prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "subsidy_search"

// Metrics counts handler outcomes. Outcome labels are one of ok, invalid,
// not_found or upstream_error.
type Metrics struct {
	Searches *prometheus.CounterVec
	Details  *prometheus.CounterVec
}

// New registers the collectors on reg, or on the default registry when reg
// is nil. localCount, when set, is exposed as a gauge of loaded records.
func New(reg prometheus.Registerer, localCount func() float64) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		Searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Search requests handled, by outcome.",
		}, []string{"outcome"}),
		Details: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_requests_total",
			Help:      "Detail requests handled, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.Searches, m.Details)

	if localCount != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "local_records",
			Help:      "Subsidy records currently loaded from local dumps.",
		}, localCount))
	}
	return m
}
