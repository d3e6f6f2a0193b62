package observability_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/waterjug/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := observability.NewMetrics()

	m.ObserveOutcome(observability.OutcomeSolved)
	m.ObserveOutcome(observability.OutcomeSolved)
	m.ObserveOutcome(observability.OutcomeInvalid)
	m.ObserveCache(true)
	m.ObserveCache(false)
	m.ObserveCache(false)
	m.ObserveSolve(time.Millisecond, 4)

	expected := `
# HELP waterjug_cache_lookups_total Total number of cache lookups by result
# TYPE waterjug_cache_lookups_total counter
waterjug_cache_lookups_total{result="hit"} 1
waterjug_cache_lookups_total{result="miss"} 2
# HELP waterjug_solve_requests_total Total number of solve requests by outcome
# TYPE waterjug_solve_requests_total counter
waterjug_solve_requests_total{outcome="invalid"} 1
waterjug_solve_requests_total{outcome="solved"} 2
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"waterjug_cache_lookups_total", "waterjug_solve_requests_total")
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(m.Registry(), "waterjug_solution_steps")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *observability.Metrics
	assert.NotPanics(t, func() {
		m.ObserveOutcome(observability.OutcomeSolved)
		m.ObserveCache(true)
		m.ObserveSolve(time.Second, 3)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := observability.NewMetrics()
	m.ObserveOutcome(observability.OutcomeUnsolvable)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `waterjug_solve_requests_total{outcome="unsolvable"} 1`)
}
