// Command hirestats serves the days-to-hire statistics API and runs the
// batch aggregation over stored job postings.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/hirelens/hirestats/internal/config"
	"github.com/hirelens/hirestats/pkg/logger"
)

// rootCmd is the base command for the hirestats CLI.
var rootCmd = &cobra.Command{
	Use:   "hirestats",
	Short: "Days-to-hire statistics service",
	Long: `hirestats aggregates job posting hiring durations into per-category,
per-country summaries and serves them over HTTP.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap initializes logging and loads configuration. Shared by every
// subcommand so they all honor the same file and environment settings.
func bootstrap(ctx context.Context) (*config.Config, error) {
	if err := logger.Init(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, nil
}
