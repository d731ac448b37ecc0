// Package dashboard holds the dashboard state: the selected view, the
// isAnalyzing flag and the current cluster slot.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/valentinpelus/velocite/pkg/feedback"
	"github.com/valentinpelus/velocite/pkg/insights"
	"github.com/valentinpelus/velocite/pkg/metrics"
	"github.com/valentinpelus/velocite/pkg/types"
)

// View is the page currently selected in the UI
type View string

const (
	ViewDashboard View = "DASHBOARD"
	ViewStrategy  View = "STRATEGY"
	ViewSettings  View = "SETTINGS"
)

// ErrInvalidView is returned by SetView for an unknown view
var ErrInvalidView = errors.New("invalid view")

// ParseView validates a view name
func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewDashboard, ViewStrategy, ViewSettings:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidView, s)
}

// Notifier is told about every completed analysis
type Notifier interface {
	SendInsightDigest(ctx context.Context, clusters []types.InsightCluster, providerName string, fallback bool) error
}

// Stats is the dashboard header: feed counts plus the critical clusters
// in the current slot
type Stats struct {
	feedback.Stats
	CriticalIssues int `json:"criticalIssues"`
}

// State is a point-in-time copy of the dashboard
type State struct {
	View        View                   `json:"view"`
	IsAnalyzing bool                   `json:"isAnalyzing"`
	Clusters    []types.InsightCluster `json:"clusters"`
	Outcome     insights.Outcome       `json:"outcome,omitempty"`
	Provider    string                 `json:"provider,omitempty"`
	Generation  uint64                 `json:"generation"`
	UpdatedAt   *time.Time             `json:"updatedAt,omitempty"`
	Stats       Stats                  `json:"stats"`
}

// Config tunes the dashboard
type Config struct {
	// AnalyzeDelay is waited before each generation so fast mock answers
	// still show the busy state
	AnalyzeDelay time.Duration

	// NotifyTimeout bounds each notifier call (default 10s)
	NotifyTimeout time.Duration
}

const defaultNotifyTimeout = 10 * time.Second

// Dashboard is the UI shell state.
//
// Overlapping Analyze calls are neither coalesced nor cancelled. Each one
// replaces the cluster slot wholesale when it finishes, so the call that
// finishes last wins, and the first call to finish clears isAnalyzing even
// if another is still running. The mutex only keeps each write atomic.
type Dashboard struct {
	store     *feedback.Store
	generator *insights.Generator
	notifier  Notifier
	logger    *zap.Logger
	metrics   *metrics.Metrics
	delay     time.Duration

	notifyTimeout time.Duration
	notifyWG      sync.WaitGroup

	mu          sync.RWMutex
	view        View
	isAnalyzing bool
	clusters    []types.InsightCluster
	outcome     insights.Outcome
	provider    string
	generation  uint64
	updatedAt   time.Time
}

// New creates a dashboard showing the DASHBOARD view with no clusters
func New(store *feedback.Store, generator *insights.Generator, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}
	return &Dashboard{
		store:         store,
		generator:     generator,
		logger:        logger,
		metrics:       m,
		delay:         cfg.AnalyzeDelay,
		notifyTimeout: cfg.NotifyTimeout,
		view:          ViewDashboard,
		clusters:      []types.InsightCluster{},
	}
}

// SetNotifier registers a notifier for completed analyses (nil disables)
func (d *Dashboard) SetNotifier(n Notifier) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notifier = n
}

// Feedback returns the feed the dashboard analyses
func (d *Dashboard) Feedback() []types.FeedbackItem {
	return d.store.All()
}

// SetView switches the selected view
func (d *Dashboard) SetView(view View) error {
	if _, err := ParseView(string(view)); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = view
	return nil
}

// Analyze runs one generation over the full feed and replaces the cluster
// slot with its result. Once started it cannot be aborted: cancellation of
// ctx is ignored, only its values are kept. The notifier runs in the
// background and never delays the return.
func (d *Dashboard) Analyze(ctx context.Context) insights.Result {
	ctx = context.WithoutCancel(ctx)

	d.mu.Lock()
	d.isAnalyzing = true
	notifier := d.notifier
	d.mu.Unlock()

	d.metrics.AnalysisStarted()
	defer d.metrics.AnalysisFinished()

	if d.delay > 0 {
		time.Sleep(d.delay)
	}

	res := d.generator.Analyze(ctx, d.store.All())

	d.mu.Lock()
	d.clusters = res.Clusters
	d.outcome = res.Outcome
	d.provider = res.Provider
	d.generation++
	d.updatedAt = time.Now()
	d.isAnalyzing = false
	d.mu.Unlock()

	d.logger.Info("Dashboard clusters replaced",
		zap.String("outcome", string(res.Outcome)),
		zap.String("provider", res.Provider),
		zap.Int("clusters", len(res.Clusters)))

	if notifier != nil {
		d.notifyWG.Add(1)
		go d.notify(ctx, notifier, res)
	}

	return res
}

func (d *Dashboard) notify(ctx context.Context, notifier Notifier, res insights.Result) {
	defer d.notifyWG.Done()

	ctx, cancel := context.WithTimeout(ctx, d.notifyTimeout)
	defer cancel()

	if err := notifier.SendInsightDigest(ctx, res.Clusters, res.Provider, res.Outcome.Fallback()); err != nil {
		d.logger.Warn("Failed to send insight digest", zap.Error(err))
	}
}

// Wait blocks until every pending notification has finished
func (d *Dashboard) Wait() {
	d.notifyWG.Wait()
}

// Snapshot returns a copy of the current state
func (d *Dashboard) Snapshot() State {
	d.mu.RLock()
	defer d.mu.RUnlock()

	clusters := make([]types.InsightCluster, len(d.clusters))
	copy(clusters, d.clusters)

	state := State{
		View:        d.view,
		IsAnalyzing: d.isAnalyzing,
		Clusters:    clusters,
		Outcome:     d.outcome,
		Provider:    d.provider,
		Generation:  d.generation,
		Stats: Stats{
			Stats:          d.store.GetStats(),
			CriticalIssues: countSeverity(clusters, types.SeverityCritical),
		},
	}
	if !d.updatedAt.IsZero() {
		updated := d.updatedAt
		state.UpdatedAt = &updated
	}
	return state
}

func countSeverity(clusters []types.InsightCluster, severity types.Severity) int {
	n := 0
	for _, c := range clusters {
		if c.Severity == severity {
			n++
		}
	}
	return n
}
