package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/valentinpelus/velocite/internal/dashboard"
	"github.com/valentinpelus/velocite/internal/handler"
	"github.com/valentinpelus/velocite/internal/middleware"
	"github.com/valentinpelus/velocite/pkg/metrics"
)

// Server wraps the HTTP server
type Server struct {
	port            string
	shutdownTimeout time.Duration
	logger          *zap.Logger
	router          http.Handler
}

// Options configures the HTTP server
type Options struct {
	Port            string
	AuthToken       string
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
	Metrics         *metrics.Metrics
}

// New creates a new HTTP server
func New(opts Options, d *dashboard.Dashboard) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{
		port:            opts.Port,
		shutdownTimeout: opts.ShutdownTimeout,
		logger:          logger,
	}
	s.router = s.setupRoutes(opts, handler.NewAPIHandler(d, logger))
	return s
}

// setupRoutes configures HTTP routes
func (s *Server) setupRoutes(opts Options, api *handler.APIHandler) http.Handler {
	auth := middleware.NewAuthMiddleware(opts.AuthToken)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(s.logger))
	r.Use(middleware.AccessLog(s.logger, opts.Metrics))

	r.Get("/health", handler.HandleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Get("/feedback", api.HandleFeedback)
		r.Get("/dashboard", api.HandleDashboard)
		r.Put("/dashboard/view", api.HandleSetView)
		r.Post("/insights", api.HandleGenerateInsights)
	})

	return r
}

// Handler returns the routed handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then drains in-flight requests
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.port)
	if err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})
	return g.Wait()
}
