package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	service "github.com/hirelens/hirestats/internal/app"
	"github.com/hirelens/hirestats/pkg/logger"
)

var (
	calcPageSize    int
	calcMinPostings int
)

var calculateCmd = &cobra.Command{
	Use:   "calculate-stats",
	Short: "Run one aggregation pass over stored job postings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCalculate(cmd.Context())
	},
}

func init() {
	calculateCmd.Flags().IntVar(&calcPageSize, "page-size", 0,
		"postings fetched per page (overrides config)")
	calculateCmd.Flags().IntVar(&calcMinPostings, "min-job-postings", 0,
		"minimum trimmed sample size per bucket (overrides config)")
	rootCmd.AddCommand(calculateCmd)
}

func runCalculate(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	log := logger.Get()

	pageSize := cfg.PageSize
	if calcPageSize > 0 {
		pageSize = calcPageSize
	}
	minPostings := cfg.MinJobPostings
	if calcMinPostings > 0 {
		minPostings = calcMinPostings
	}

	svc := service.New(
		service.WithLogger(log),
		service.WithDatabase(cfg.DBDriver, cfg.DBDSN),
		service.WithPageSize(pageSize),
		service.WithMinPostings(minPostings),
		service.WithQueryTimeout(time.Duration(cfg.QueryTimeoutMS)*time.Millisecond),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	report, err := svc.RunAggregation(ctx)
	if err != nil {
		return err
	}

	log.Info(ctx, "aggregation complete",
		logger.String("run_id", report.ID.String()),
		logger.Int64("postings_scanned", report.PostingsScanned),
		logger.Int64("groups_total", report.GroupsTotal),
		logger.Int64("groups_persisted", report.GroupsPersisted))
	return nil
}
