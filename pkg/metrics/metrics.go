// Package metrics holds the Prometheus collectors shared across a solve.
// Kept as one small registry rather than scattering prometheus.MustRegister
// calls through the engine packages.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Solver bundles the counters and histograms the search driver updates.
type Solver struct {
	SolvesTotal     *prometheus.CounterVec
	IncumbentsTotal prometheus.Counter
	SolveDuration   prometheus.Histogram
}

// NewSolver creates and registers a Solver metrics bundle against reg. Pass
// prometheus.DefaultRegisterer to wire it into the process's default
// /metrics handler.
func NewSolver(reg prometheus.Registerer) *Solver {
	s := &Solver{
		SolvesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teamforge_solves_total",
			Help: "Number of solves attempted, by terminal status.",
		}, []string{"status"}),
		IncumbentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "teamforge_incumbents_total",
			Help: "Number of improving incumbents observed across all solves.",
		}),
		SolveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "teamforge_solve_duration_seconds",
			Help:    "Wall-clock duration of a solve, from driver invocation to terminal status.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(s.SolvesTotal, s.IncumbentsTotal, s.SolveDuration)
	return s
}
