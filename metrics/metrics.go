// Package metrics exposes Prometheus instrumentation for a Searcher.
// Registration is lazy and opt-in: embedding the engine in another binary
// must not force a collector registration the host never asked for.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set holds the counters one Searcher instance reports. A nil *Set is valid
// and every method on it is a no-op, so callers that don't want metrics can
// simply leave the field unset.
type Set struct {
	queries   prometheus.Counter
	misses    prometheus.Counter
	ioOps     prometheus.Counter
	lastQuery prometheus.Gauge
}

// NewSet builds a Set and registers its collectors against reg. Pass
// prometheus.DefaultRegisterer to expose on the default /metrics handler, or
// a prometheus.NewRegistry() for an isolated instance (e.g. in tests).
// dbLabel identifies which XDB file the counters belong to, since a process
// may hold more than one Searcher open at once.
func NewSet(reg prometheus.Registerer, dbLabel string) *Set {
	s := &Set{
		queries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "region_xdb",
			Name:        "queries_total",
			Help:        "Total number of search queries served.",
			ConstLabels: prometheus.Labels{"db": dbLabel},
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "region_xdb",
			Name:        "misses_total",
			Help:        "Total number of queries that found no matching region.",
			ConstLabels: prometheus.Labels{"db": dbLabel},
		}),
		ioOps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "region_xdb",
			Name:        "io_ops_total",
			Help:        "Total number of backing-store reads issued across all queries.",
			ConstLabels: prometheus.Labels{"db": dbLabel},
		}),
		lastQuery: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "region_xdb",
			Name:        "last_query_io_ops",
			Help:        "Backing-store reads issued by the most recent query.",
			ConstLabels: prometheus.Labels{"db": dbLabel},
		}),
	}
	reg.MustRegister(s.queries, s.misses, s.ioOps, s.lastQuery)
	return s
}

// ObserveQuery records one completed query: whether it found a payload and
// how many backing-store reads it issued.
func (s *Set) ObserveQuery(hit bool, ioOps uint32) {
	if s == nil {
		return
	}
	s.queries.Inc()
	if !hit {
		s.misses.Inc()
	}
	s.ioOps.Add(float64(ioOps))
	s.lastQuery.Set(float64(ioOps))
}
