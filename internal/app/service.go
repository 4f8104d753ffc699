// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the batch CLI.
package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	repository "github.com/hirelens/hirestats/internal/adapters/repository"
	"github.com/hirelens/hirestats/internal/config"
	"github.com/hirelens/hirestats/internal/domain/model"
	"github.com/hirelens/hirestats/internal/engine"
	"github.com/hirelens/hirestats/pkg/logger"
)

// Default service configuration constants.
const (
	defaultQueryTimeout = 5 * time.Second
	statsProbeTimeout   = 2 * time.Second
)

// Service owns the store handle and exposes the lookup and aggregation
// operations on top of it.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store

	// Configuration
	dbDriver     string
	dbDSN        string
	pageSize     int
	minPostings  int
	queryTimeout time.Duration

	// State
	started bool
	lastRun *model.RunReport

	// Logging
	log logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore injects a pre-opened store; Start will not open its own.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithDatabase sets the driver and DSN used to open the store.
func WithDatabase(driver, dsn string) Option {
	return func(s *Service) {
		if driver != "" {
			s.dbDriver = driver
		}
		if dsn != "" {
			s.dbDSN = dsn
		}
	}
}

// WithPageSize sets the aggregation page size.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithMinPostings sets the minimum trimmed sample size per bucket.
func WithMinPostings(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.minPostings = count
		}
	}
}

// WithQueryTimeout bounds store round trips.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.queryTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dbDriver:     "sqlite3",
		dbDSN:        "hirestats.db",
		pageSize:     config.DefaultPageSize,
		minPostings:  config.DefaultMinJobPostings,
		queryTimeout: defaultQueryTimeout,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start opens the store unless one was injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	if s.store == nil {
		store, err := repository.Open(ctx, s.dbDriver, s.dbDSN,
			repository.WithQueryTimeout(s.queryTimeout),
			repository.WithLogger(s.log),
		)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		s.store = store
	}

	s.started = true
	s.log.Info(ctx, "hirestats service started",
		logger.String("db_driver", s.dbDriver),
		logger.Int("page_size", s.pageSize),
		logger.Int("min_job_postings", s.minPostings),
	)
	return nil
}

// Stop closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn(context.Background(), "store close failed", logger.Error(err))
		}
	}
	s.started = false
	s.log.Info(context.Background(), "hirestats service stopped")
}

// Lookup returns the persisted summary for a job category, worldwide when
// countryCode is nil. Propagates repository.ErrNotFound untouched so the
// API layer can translate it to 404.
func (s *Service) Lookup(ctx context.Context, standardJobID string, countryCode *string) (model.StatsEntry, error) {
	var country sql.NullString
	if countryCode != nil {
		country = sql.NullString{String: *countryCode, Valid: true}
	}

	record, err := s.store.Lookup(ctx, standardJobID, country)
	if err != nil {
		return model.StatsEntry{}, err
	}
	return record.Entry(), nil
}

// RunAggregation executes one full aggregation run and records its audit row.
func (s *Service) RunAggregation(ctx context.Context) (model.RunReport, error) {
	agg := engine.New(s.store, s.store,
		engine.WithPageSize(s.pageSize),
		engine.WithMinPostings(s.minPostings),
		engine.WithLogger(s.log),
	)

	report, err := agg.Run(ctx)
	if err != nil {
		return report, err
	}

	// The audit row is advisory; a failure must not fail a committed run.
	if err := s.store.RecordRun(ctx, report); err != nil {
		s.log.Warn(ctx, "run audit record failed",
			logger.String("run_id", report.ID.String()), logger.Error(err))
	}

	s.mu.Lock()
	s.lastRun = &report
	s.mu.Unlock()

	return report, nil
}

// GetStats returns current service statistics for the /stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	lastRun := s.lastRun
	started := s.started
	store := s.store
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      started,
		"pageSize":     s.pageSize,
		"minPostings":  s.minPostings,
		"statsRecords": int64(0),
	}

	if store != nil {
		ctx, cancel := context.WithTimeout(context.Background(), statsProbeTimeout)
		defer cancel()
		if count, err := store.StatsCount(ctx); err == nil {
			stats["statsRecords"] = count
		}
	}

	if lastRun != nil {
		stats["lastRunID"] = lastRun.ID.String()
		stats["lastRunFinishedAt"] = lastRun.FinishedAt
		stats["lastRunPostingsScanned"] = lastRun.PostingsScanned
		stats["lastRunGroupsPersisted"] = lastRun.GroupsPersisted
	}
	return stats
}
