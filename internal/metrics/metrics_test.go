package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Turn("greeting")
	m.Turn("greeting")
	m.Farewell()
	m.Fallback("keyword_scan")
	m.ExternalError("llm")
	m.ObserveTurn("greeting", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("greeting")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.farewells))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("keyword_scan")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.externalErrors.WithLabelValues("llm")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Turn("greeting")
		m.Farewell()
		m.Fallback("x")
		m.ExternalError("llm")
		m.ObserveTurn("greeting", time.Second)
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.Farewell()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "triage_farewells_total 1")
}
