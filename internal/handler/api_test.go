package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valentinpelus/velocite/internal/dashboard"
	"github.com/valentinpelus/velocite/pkg/feedback"
	"github.com/valentinpelus/velocite/pkg/insights"
	"github.com/valentinpelus/velocite/pkg/llm"
)

type stubProvider struct {
	text string
	err  error
}

func (p stubProvider) GenerateClusters(context.Context, string) (string, error) {
	return p.text, p.err
}

func (p stubProvider) Name() string { return "stub" }

func newHandler(provider llm.Provider) (*APIHandler, *dashboard.Dashboard) {
	d := dashboard.New(feedback.NewDefaultStore(), insights.NewGenerator(provider), dashboard.Config{}, nil, nil)
	return NewAPIHandler(d, nil), d
}

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHandleFeedback(t *testing.T) {
	h, _ := newHandler(nil)
	rec := httptest.NewRecorder()
	h.HandleFeedback(rec, httptest.NewRequest(http.MethodGet, "/api/v1/feedback", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body FeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Items, 6)
	assert.Equal(t, 6, body.Stats.Total)
	assert.Equal(t, 0, body.Stats.CriticalIssues)
}

func TestHandleGenerateInsights_Mock(t *testing.T) {
	h, d := newHandler(nil)
	rec := httptest.NewRecorder()
	h.HandleGenerateInsights(rec, httptest.NewRequest(http.MethodPost, "/api/v1/insights", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body InsightsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, insights.OutcomeNoCredential, body.Outcome)
	require.Len(t, body.Clusters, 2)
	assert.Equal(t, "cluster-2", body.Clusters[1].ID)

	state := d.Snapshot()
	assert.Len(t, state.Clusters, 2)
	assert.Equal(t, 1, state.Stats.CriticalIssues)
}

func TestHandleGenerateInsights_RemoteError(t *testing.T) {
	h, _ := newHandler(stubProvider{err: errors.New("connection refused")})
	rec := httptest.NewRecorder()
	h.HandleGenerateInsights(rec, httptest.NewRequest(http.MethodPost, "/api/v1/insights", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"outcome":"fallback_error"`)
	assert.Contains(t, rec.Body.String(), `"relatedFeedbackIds":["1","2"]`)
}

func TestHandleGenerateInsights_EmptyAnswer(t *testing.T) {
	h, _ := newHandler(stubProvider{text: ""})
	rec := httptest.NewRecorder()
	h.HandleGenerateInsights(rec, httptest.NewRequest(http.MethodPost, "/api/v1/insights", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"clusters":[]`)
	assert.Contains(t, rec.Body.String(), `"outcome":"empty"`)
}

func TestHandleSetView(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
		wantView dashboard.View
	}{
		{"strategy", `{"view":"STRATEGY"}`, http.StatusOK, dashboard.ViewStrategy},
		{"settings", `{"view":"SETTINGS"}`, http.StatusOK, dashboard.ViewSettings},
		{"unknown", `{"view":"REPORTS"}`, http.StatusBadRequest, dashboard.ViewDashboard},
		{"lowercase", `{"view":"strategy"}`, http.StatusBadRequest, dashboard.ViewDashboard},
		{"malformed", `{"view":`, http.StatusBadRequest, dashboard.ViewDashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, d := newHandler(nil)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/api/v1/dashboard/view", strings.NewReader(tt.body))
			h.HandleSetView(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantView, d.Snapshot().View)
		})
	}
}

func TestHandleDashboard(t *testing.T) {
	h, _ := newHandler(nil)
	rec := httptest.NewRecorder()
	h.HandleDashboard(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var state dashboard.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, dashboard.ViewDashboard, state.View)
	assert.False(t, state.IsAnalyzing)
	assert.Empty(t, state.Clusters)
}
