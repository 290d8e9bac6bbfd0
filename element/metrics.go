package element

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters of a Provider
type Metrics struct {
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
	Unsupported prometheus.Counter
	Errors      prometheus.Counter
}

// NewMetrics creates and registers the provider metrics with the registry
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plyindex_layout_cache_hits_total",
			Help: "Layout lookups answered from the provider cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plyindex_layout_cache_misses_total",
			Help: "Layout lookups that resolved element metadata",
		}),
		Unsupported: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plyindex_layout_unsupported_total",
			Help: "Elements whose type has no layout",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "plyindex_layout_errors_total",
			Help: "Layout lookups that failed on inconsistent metadata",
		}),
	}
	reg.MustRegister(m.CacheHits, m.CacheMisses, m.Unsupported, m.Errors)
	return m
}

// A nil *Metrics records nothing

func (m *Metrics) hit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

func (m *Metrics) unsupported() {
	if m != nil {
		m.Unsupported.Inc()
	}
}

func (m *Metrics) failed() {
	if m != nil {
		m.Errors.Inc()
	}
}
