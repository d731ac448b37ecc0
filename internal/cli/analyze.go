package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/valentinpelus/velocite/internal/app"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var withOutcome bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Generate insight clusters once and print them as JSON",
		Long: `Runs one generation over the configured feedback and prints the clusters.
Falls back to the mock clusters when no credential is set or the call fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			res := application.Generator.Analyze(cmd.Context(), application.FeedbackStore.All())

			var out any = res.Clusters
			if withOutcome {
				out = res
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("failed to write clusters: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withOutcome, "with-outcome", false, "wrap the clusters with the outcome and provider")
	return cmd
}
