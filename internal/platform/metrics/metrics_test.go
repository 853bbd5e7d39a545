package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveOutbound(t *testing.T) {
	t.Parallel()

	m := New(WithNamespace("test"))
	m.ObserveOutbound("statsapi", "teams", http.StatusOK, 20*time.Millisecond)
	m.ObserveOutbound("statsapi", "teams", http.StatusOK, 30*time.Millisecond)
	m.ObserveOutbound("statsapi", "teams", 0, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.outboundCalls.WithLabelValues("statsapi", "teams", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboundCalls.WithLabelValues("statsapi", "teams", "0")))
}

func TestMetrics_ObserveRefresh(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRefresh("reference", OutcomeSuccess, time.Second)
	m.ObserveRefresh("reference", OutcomeError, time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("reference", OutcomeError)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.refreshDuration))
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveHTTP("GET /v1/teams", http.MethodGet, http.StatusOK, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "mlbhr_http_requests_total"))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveHTTP("r", http.MethodGet, http.StatusOK, time.Millisecond)
	m.ObserveOutbound("p", "o", http.StatusOK, time.Millisecond)
	m.ObserveRefresh("k", OutcomeSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
