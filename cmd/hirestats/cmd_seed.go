package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	repository "github.com/hirelens/hirestats/internal/adapters/repository"
	"github.com/hirelens/hirestats/internal/seed"
)

var (
	seedPostings int
	seedJobs     int
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert synthetic job postings for local development",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSeed(cmd.Context())
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedPostings, "postings", seed.DefaultNumPostings,
		"number of postings to generate")
	seedCmd.Flags().IntVar(&seedJobs, "jobs", seed.DefaultNumJobs,
		"number of distinct standard job ids")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(ctx context.Context) error {
	cfg, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg.DBDriver, cfg.DBDSN,
		repository.WithQueryTimeout(time.Duration(cfg.QueryTimeoutMS)*time.Millisecond))
	if err != nil {
		return err
	}
	defer store.Close()

	seedCfg := seed.DefaultConfig()
	seedCfg.NumPostings = seedPostings
	seedCfg.NumJobs = seedJobs

	_, err = seed.Run(ctx, store, seedCfg)
	return err
}
