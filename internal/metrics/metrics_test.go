package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.AuthEvent("login", "success")
	m.AuthEvent("login", "success")
	m.AuthEvent("login", "invalid_credentials")
	m.AssistantQuery("code", "success", 150*time.Millisecond)
	m.ObserveHTTP("GET /healthz", "GET", "200", time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "invalid_credentials")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.assistantQueries.WithLabelValues("code", "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET /healthz", "GET", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.AuthEvent("register", "success")
	m.AssistantQuery("math", "error", time.Second)
	m.ObserveHTTP("/", "GET", "200", time.Second)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.AssistantQuery("math", "success", time.Second)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `ekaksh_assistant_queries_total{kind="math",outcome="success"} 1`))
	require.Contains(t, string(body), "go_goroutines")
}
