package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/valentinpelus/velocite/internal/app"
	"github.com/valentinpelus/velocite/internal/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg, logger)
			if err != nil {
				return err
			}
			application.LogStartupInfo()

			srv := server.New(server.Options{
				Port:            cfg.Port,
				AuthToken:       cfg.APIAuthToken,
				ShutdownTimeout: cfg.ShutdownTimeout,
				Logger:          logger.Named("http"),
				Metrics:         application.Metrics,
			}, application.Dashboard)
			err = srv.Start(ctx)

			// let in-flight Slack digests finish before exiting
			application.Dashboard.Wait()
			return err
		},
	}
}
