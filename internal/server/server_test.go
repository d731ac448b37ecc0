package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/velocite/internal/dashboard"
	"github.com/valentinpelus/velocite/pkg/feedback"
	"github.com/valentinpelus/velocite/pkg/insights"
	"github.com/valentinpelus/velocite/pkg/metrics"
)

func newTestServer(token string) *Server {
	m := metrics.New()
	d := dashboard.New(feedback.NewDefaultStore(), insights.NewGenerator(nil, insights.WithMetrics(m)), dashboard.Config{}, nil, m)
	return New(Options{Port: "0", AuthToken: token, Metrics: m}, d)
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes(t *testing.T) {
	h := newTestServer("").Handler()

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/feedback", "", http.StatusOK},
		{http.MethodGet, "/api/v1/dashboard", "", http.StatusOK},
		{http.MethodPut, "/api/v1/dashboard/view", `{"view":"STRATEGY"}`, http.StatusOK},
		{http.MethodPut, "/api/v1/dashboard/view", `{"view":"NOPE"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/insights", "", http.StatusOK},
		{http.MethodGet, "/api/v1/insights", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestRoutes_AuthOnlyGuardsAPI(t *testing.T) {
	h := newTestServer("secret").Handler()

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/v1/dashboard", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(t, h, http.MethodGet, "/api/v1/dashboard", "", "wrong").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/api/v1/dashboard", "", "secret").Code)
}

func TestMetricsExposeGenerations(t *testing.T) {
	h := newTestServer("").Handler()
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/api/v1/insights", "", "").Code)

	rec := do(t, h, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `outcome="fallback_no_credential"`)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer("")
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
