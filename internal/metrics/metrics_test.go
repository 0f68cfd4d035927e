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

func TestObserveResolve(t *testing.T) {
	c := New()
	c.ObserveResolve("all", map[string]int{"source": 2, "both": 1})
	c.ObserveResolve("queue", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Resolves.WithLabelValues("all")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.UnresolvedBindings.WithLabelValues("source")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.UnresolvedBindings.WithLabelValues("both")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.ActiveSessions.Set(3)
	c.ObserveHTTP(http.MethodGet, "/health", http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "topograph_active_sessions 3")
	assert.Contains(t, body, `topograph_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
