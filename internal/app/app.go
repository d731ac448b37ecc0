package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/valentinpelus/velocite/internal/config"
	"github.com/valentinpelus/velocite/internal/dashboard"
	"github.com/valentinpelus/velocite/pkg/feedback"
	"github.com/valentinpelus/velocite/pkg/insights"
	"github.com/valentinpelus/velocite/pkg/llm"
	"github.com/valentinpelus/velocite/pkg/metrics"
	"github.com/valentinpelus/velocite/pkg/slack"
)

// App holds all application dependencies
type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
	FeedbackStore *feedback.Store
	LLMProvider   llm.Provider // nil in degraded mode
	Generator     *insights.Generator
	SlackClient   *slack.Client
	Dashboard     *dashboard.Dashboard
}

// New initializes a new application with all dependencies
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := metrics.New()

	store, err := loadFeedback(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// A missing credential is the degraded mode, not a startup failure
	provider, err := llm.NewFactory(cfg.LLMConfig()).CreateProvider(ctx)
	if err != nil {
		if !errors.Is(err, llm.ErrNoCredential) {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		logger.Warn("No LLM credential configured, insights will use mock data",
			zap.String("provider", cfg.LLMProvider), zap.Error(err))
		provider = nil
	}

	generator := insights.NewGenerator(provider,
		insights.WithLogger(logger.Named("insights")),
		insights.WithMetrics(m),
		insights.WithPromptTemplate(cfg.ClusterPromptTemplate))

	dash := dashboard.New(store, generator, dashboard.Config{
		AnalyzeDelay:  cfg.AnalyzeDelay,
		NotifyTimeout: cfg.SlackTimeout,
	}, logger.Named("dashboard"), m)

	slackClient := slack.NewClient(cfg.SlackWebhookURL, cfg.SlackBotToken, cfg.SlackChannelID)
	slackClient.SetTimeout(cfg.SlackTimeout)
	if slackClient.IsConfigured() {
		dash.SetNotifier(slackClient)
	}

	return &App{
		Config:        cfg,
		Logger:        logger,
		Metrics:       m,
		FeedbackStore: store,
		LLMProvider:   provider,
		Generator:     generator,
		SlackClient:   slackClient,
		Dashboard:     dash,
	}, nil
}

// loadFeedback picks the seed: file, then database, then the built-in feed
func loadFeedback(ctx context.Context, cfg *config.Config) (*feedback.Store, error) {
	switch {
	case cfg.FeedbackFile != "":
		store, err := feedback.LoadFile(cfg.FeedbackFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load feedback: %w", err)
		}
		return store, nil
	case cfg.FeedbackDatabaseURL != "":
		store, err := feedback.LoadPostgres(ctx, feedback.PostgresConfig{
			DatabaseURL: cfg.FeedbackDatabaseURL,
			Table:       cfg.FeedbackTable,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load feedback: %w", err)
		}
		return store, nil
	default:
		return feedback.NewDefaultStore(), nil
	}
}

// LogStartupInfo logs application startup information
func (a *App) LogStartupInfo() {
	a.Logger.Info("Starting Velocite feedback insights",
		zap.String("port", a.Config.Port),
		zap.Int("feedback_items", a.FeedbackStore.Len()),
		zap.Duration("analyze_delay", a.Config.AnalyzeDelay))

	if a.LLMProvider != nil {
		a.Logger.Info("LLM provider configured", zap.String("provider", a.LLMProvider.Name()))
	} else {
		a.Logger.Warn("LLM provider: none (mock insights)")
	}

	if a.Config.APIAuthToken != "" {
		a.Logger.Info("API authentication: enabled (Bearer token required)")
	} else {
		a.Logger.Warn("API authentication: disabled (anyone can trigger analyses)")
	}

	switch {
	case a.SlackClient.HasBotToken():
		a.Logger.Info("Slack digests: enabled (Bot token)")
	case a.SlackClient.IsConfigured():
		a.Logger.Info("Slack digests: enabled (Webhook)")
	default:
		a.Logger.Info("Slack digests: disabled")
	}
}
