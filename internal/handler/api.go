package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/valentinpelus/velocite/internal/dashboard"
	"github.com/valentinpelus/velocite/pkg/insights"
	"github.com/valentinpelus/velocite/pkg/types"
)

// maxBodyBytes bounds request bodies; the only body is a view name
const maxBodyBytes = 1 << 16

// APIHandler serves the dashboard API
type APIHandler struct {
	dashboard *dashboard.Dashboard
	logger    *zap.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(d *dashboard.Dashboard, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		dashboard: d,
		logger:    logger,
	}
}

// FeedbackResponse is the body of GET /api/v1/feedback
type FeedbackResponse struct {
	Items []types.FeedbackItem `json:"items"`
	Stats dashboard.Stats      `json:"stats"`
}

// InsightsResponse is the body of POST /api/v1/insights
type InsightsResponse struct {
	Clusters []types.InsightCluster `json:"clusters"`
	Outcome  insights.Outcome       `json:"outcome"`
	Provider string                 `json:"provider"`
}

type viewRequest struct {
	View string `json:"view"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleFeedback returns the feed with its stats
func (h *APIHandler) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	state := h.dashboard.Snapshot()
	h.writeJSON(w, http.StatusOK, FeedbackResponse{
		Items: h.dashboard.Feedback(),
		Stats: state.Stats,
	})
}

// HandleDashboard returns the current dashboard state
func (h *APIHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.dashboard.Snapshot())
}

// HandleSetView switches the selected view
func (h *APIHandler) HandleSetView(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("Failed to read request body", zap.Error(err))
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}
	defer r.Body.Close()

	var req viewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to parse request body"})
		return
	}

	view, err := dashboard.ParseView(req.View)
	if err == nil {
		err = h.dashboard.SetView(view)
	}
	if err != nil {
		if errors.Is(err, dashboard.ErrInvalidView) {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to set view"})
		return
	}

	h.writeJSON(w, http.StatusOK, h.dashboard.Snapshot())
}

// HandleGenerateInsights runs one analysis and returns its clusters. The
// generator never fails towards the caller, so this always answers 200.
func (h *APIHandler) HandleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	res := h.dashboard.Analyze(r.Context())

	clusters := res.Clusters
	if clusters == nil {
		clusters = []types.InsightCluster{}
	}
	h.writeJSON(w, http.StatusOK, InsightsResponse{
		Clusters: clusters,
		Outcome:  res.Outcome,
		Provider: res.Provider,
	})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to write response", zap.Error(err))
	}
}

// HandleHealth handles health check requests
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
