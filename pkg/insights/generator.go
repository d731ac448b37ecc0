// Package insights turns a feedback feed into insight clusters, either by
// asking an LLM provider or by returning the canned fallback clusters.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/valentinpelus/velocite/pkg/llm"
	"github.com/valentinpelus/velocite/pkg/metrics"
	"github.com/valentinpelus/velocite/pkg/types"
)

// Outcome tells which path produced a result
type Outcome string

const (
	// OutcomeRemote: the provider answered with at least one cluster
	OutcomeRemote Outcome = "remote"
	// OutcomeEmpty: the provider answered successfully with nothing
	OutcomeEmpty Outcome = "empty"
	// OutcomeNoCredential: no provider configured, mock clusters returned
	OutcomeNoCredential Outcome = "fallback_no_credential"
	// OutcomeError: the call or the parse failed, mock clusters returned
	OutcomeError Outcome = "fallback_error"
)

// Fallback reports whether the clusters are the canned mock payload
func (o Outcome) Fallback() bool {
	return o == OutcomeNoCredential || o == OutcomeError
}

// Result is the outcome of one generation
type Result struct {
	Clusters []types.InsightCluster `json:"clusters"`
	Outcome  Outcome                `json:"outcome"`
	Provider string                 `json:"provider"`
}

const mockProviderName = "mock"

// Generator converts feedback into insight clusters. It holds no mutable
// state, so concurrent calls are independent: nothing deduplicates or
// cancels overlapping generations.
type Generator struct {
	provider llm.Provider
	template string
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records outcome and latency of every generation
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithPromptTemplate replaces the default clustering prompt. The template
// must contain {FEEDBACK_DATA}; blank keeps the default.
func WithPromptTemplate(template string) Option {
	return func(g *Generator) {
		g.template = template
	}
}

// NewGenerator creates a generator. A nil provider means no credential is
// configured and every call returns the mock clusters.
func NewGenerator(provider llm.Provider, opts ...Option) *Generator {
	g := &Generator{
		provider: provider,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// HasProvider reports whether a remote provider is configured
func (g *Generator) HasProvider() bool {
	return g.provider != nil
}

// ProviderName returns the provider name, or "mock" without one
func (g *Generator) ProviderName() string {
	if g.provider == nil {
		return mockProviderName
	}
	return g.provider.Name()
}

// Generate returns the clusters for feedback. It never fails: missing
// credentials and remote errors degrade to MockClusters.
func (g *Generator) Generate(ctx context.Context, feedback []types.FeedbackItem) []types.InsightCluster {
	return g.Analyze(ctx, feedback).Clusters
}

// Analyze is Generate plus the outcome and provider that produced the clusters
func (g *Generator) Analyze(ctx context.Context, feedback []types.FeedbackItem) Result {
	start := time.Now()
	res := g.analyze(ctx, feedback)

	g.metrics.RecordGeneration(res.Provider, string(res.Outcome), time.Since(start))
	for _, c := range res.Clusters {
		g.metrics.RecordCluster(string(c.Severity))
	}

	return res
}

func (g *Generator) analyze(ctx context.Context, feedback []types.FeedbackItem) Result {
	if g.provider == nil {
		g.logger.Warn("No API key provided, returning mock data simulation",
			zap.Int("feedback_items", len(feedback)))
		return Result{Clusters: MockClusters(feedback), Outcome: OutcomeNoCredential, Provider: mockProviderName}
	}

	name := g.provider.Name()
	prompt := llm.BuildClusterPrompt(g.template, feedback)

	g.logger.Debug("Requesting insight clusters",
		zap.String("provider", name),
		zap.Int("feedback_items", len(feedback)))

	text, err := g.provider.GenerateClusters(ctx, prompt)
	if err != nil {
		g.logger.Error("Insight analysis failed, falling back to mock clusters",
			zap.String("provider", name), zap.Error(err))
		return Result{Clusters: MockClusters(feedback), Outcome: OutcomeError, Provider: name}
	}

	clusters, err := ParseClusters(text)
	if err != nil {
		g.logger.Error("Insight response could not be parsed, falling back to mock clusters",
			zap.String("provider", name), zap.Error(err))
		return Result{Clusters: MockClusters(feedback), Outcome: OutcomeError, Provider: name}
	}

	outcome := OutcomeRemote
	if len(clusters) == 0 {
		outcome = OutcomeEmpty
	}

	g.logger.Info("Insight analysis complete",
		zap.String("provider", name),
		zap.Int("clusters", len(clusters)))

	return Result{Clusters: clusters, Outcome: outcome, Provider: name}
}

// ErrNotArray is returned when the response is valid JSON but not an array
var ErrNotArray = errors.New("insight response is not a JSON array")

// ParseClusters decodes the provider's JSON text. Blank text is a successful
// empty answer. The decoded clusters are returned as-is: severity, score
// range and related ids are not checked.
func ParseClusters(text string) ([]types.InsightCluster, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return []types.InsightCluster{}, nil
	}
	if !strings.HasPrefix(text, "[") {
		return nil, ErrNotArray
	}

	var clusters []types.InsightCluster
	if err := json.Unmarshal([]byte(text), &clusters); err != nil {
		return nil, fmt.Errorf("failed to decode insight clusters: %w", err)
	}
	return clusters, nil
}
