package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Solve outcomes used as the "outcome" label.
const (
	OutcomeSolved     = "solved"
	OutcomeUnsolvable = "unsolvable"
	OutcomeInvalid    = "invalid"
	OutcomeError      = "error"
	OutcomeTimeout    = "timeout"
)

// Metrics holds the service collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	solves        *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	solveDuration prometheus.Histogram
	solutionSteps prometheus.Histogram
}

// NewMetrics creates and registers the service collectors plus the Go and
// process collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		solves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waterjug_solve_requests_total",
				Help: "Total number of solve requests by outcome",
			},
			[]string{"outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "waterjug_cache_lookups_total",
				Help: "Total number of cache lookups by result",
			},
			[]string{"result"},
		),
		solveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waterjug_solve_duration_seconds",
				Help:    "Duration of solver searches (cache misses only)",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
		),
		solutionSteps: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "waterjug_solution_steps",
				Help:    "Number of steps in returned solutions",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),
	}

	m.registry.MustRegister(
		m.solves,
		m.cacheLookups,
		m.solveDuration,
		m.solutionSteps,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveOutcome counts a finished request.
func (m *Metrics) ObserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.solves.WithLabelValues(outcome).Inc()
}

// ObserveCache counts a cache lookup.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveSolve records the duration of a search and the solution length.
func (m *Metrics) ObserveSolve(d time.Duration, steps int) {
	if m == nil {
		return
	}
	m.solveDuration.Observe(d.Seconds())
	if steps > 0 {
		m.solutionSteps.Observe(float64(steps))
	}
}
