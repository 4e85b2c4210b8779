package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/assetplan/core/metrics"
)

func TestPromSink(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordPlan(coremetrics.PlanResult{Policy: "min_power", Candidates: 6, Unassigned: 1, Duration: time.Millisecond}))
	require.NoError(t, sink.RecordAssignments([]coremetrics.AssignmentEvent{
		{Satisfied: true}, {Satisfied: true}, {Satisfied: false},
	}))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.plans.WithLabelValues("min_power")))
	assert.Equal(t, 2.0, testutil.ToFloat64(sink.assignments.WithLabelValues("assigned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.assignments.WithLabelValues("unassigned")))
	assert.Equal(t, 6.0, testutil.ToFloat64(sink.candidates))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.unassigned))
}

func TestPromSinkReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	second, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, first.RecordPlan(coremetrics.PlanResult{Policy: "all"}))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.plans.WithLabelValues("all")))
}

func TestHTTPMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	mw, err := NewHTTPMiddleware(reg)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(mw.Handler)
	r.Get("/api/runs", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(mw.requests.WithLabelValues("418", "GET", "/api/runs")))
}
