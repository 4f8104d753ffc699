package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hirelens/hirestats/internal/domain/model"
	"github.com/hirelens/hirestats/pkg/logger"
	"github.com/hirelens/hirestats/pkg/metrics"

	// Supported database/sql drivers.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Default store configuration constants.
const (
	defaultQueryTimeout = 5 * time.Second
)

// schema is the bootstrap DDL. The job_posting table is externally owned;
// it is created here only so local and test databases are usable out of
// the box. Column types are the portable subset of sqlite and postgres.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS job_posting (
		id TEXT PRIMARY KEY,
		standard_job_id TEXT NOT NULL,
		country_code TEXT,
		days_to_hire INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS days_to_hire_stats (
		id TEXT PRIMARY KEY,
		standard_job_id TEXT NOT NULL,
		country_code TEXT,
		min_days_to_hire INTEGER NOT NULL,
		max_days_to_hire INTEGER NOT NULL,
		avg_days_to_hire INTEGER NOT NULL,
		job_posting_count INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stats_run (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		postings_scanned INTEGER NOT NULL,
		groups_total INTEGER NOT NULL,
		groups_persisted INTEGER NOT NULL
	)`,
}

// SQLStore implements Store on top of sqlite3 or postgres via sqlx.
// Queries are written with ? bindvars and rebound per driver.
type SQLStore struct {
	db      *sqlx.DB
	timeout time.Duration
	log     logger.Logger
}

// Open connects to the database, verifies the connection, and applies the
// bootstrap DDL.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	if driver != "sqlite3" && driver != "postgres" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if driver == "sqlite3" && strings.Contains(dsn, ":memory:") {
		// A pooled in-memory sqlite opens a fresh empty database per
		// connection; pin the pool to a single connection.
		db.SetMaxOpenConns(1)
	}

	s := &SQLStore{
		db:      db,
		timeout: defaultQueryTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get()
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s store: %w", driver, err)
	}
	if err := s.bootstrap(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// bootstrap creates missing tables.
func (s *SQLStore) bootstrap(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for _, ddl := range schema {
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// CountEligible returns the number of postings carrying a days_to_hire value.
func (s *SQLStore) CountEligible(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	var count int64
	err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM job_posting WHERE days_to_hire IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("count eligible postings: %w", err)
	}
	metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	return count, nil
}

// FetchPage returns up to limit eligible postings starting at offset,
// ordered by posting id.
func (s *SQLStore) FetchPage(ctx context.Context, offset, limit int) ([]model.JobPosting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	query := s.db.Rebind(`
		SELECT id, standard_job_id, country_code, days_to_hire
		FROM job_posting
		WHERE days_to_hire IS NOT NULL
		ORDER BY id
		LIMIT ? OFFSET ?`)

	var page []model.JobPosting
	if err := s.db.SelectContext(ctx, &page, query, limit, offset); err != nil {
		return nil, fmt.Errorf("fetch posting page at offset %d: %w", offset, err)
	}
	metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	return page, nil
}

// UpsertAll writes all records in one transaction keyed by id, overwriting
// every field on conflict. A mid-batch failure rolls the whole batch back.
func (s *SQLStore) UpsertAll(ctx context.Context, records []model.DaysToHireStats) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout*time.Duration(len(records)/100+1))
	defer cancel()

	start := time.Now()
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin stats upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := s.db.Rebind(`
		INSERT INTO days_to_hire_stats (
			id, standard_job_id, country_code,
			min_days_to_hire, max_days_to_hire, avg_days_to_hire,
			job_posting_count
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			standard_job_id = excluded.standard_job_id,
			country_code = excluded.country_code,
			min_days_to_hire = excluded.min_days_to_hire,
			max_days_to_hire = excluded.max_days_to_hire,
			avg_days_to_hire = excluded.avg_days_to_hire,
			job_posting_count = excluded.job_posting_count`)

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare stats upsert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err := stmt.ExecContext(ctx,
			rec.ID, rec.StandardJobID, rec.CountryCode,
			rec.MinDaysToHire, rec.MaxDaysToHire, rec.AvgDaysToHire,
			rec.JobPostingCount)
		if err != nil {
			return fmt.Errorf("upsert stats record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit stats upsert: %w", err)
	}
	metrics.RecordUpsertLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// Lookup returns the persisted summary for (standardJobID, countryCode).
// An invalid countryCode matches only the worldwide row.
func (s *SQLStore) Lookup(ctx context.Context, standardJobID string, countryCode sql.NullString) (model.DaysToHireStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	var (
		rec   model.DaysToHireStats
		query string
		args  []interface{}
	)
	if countryCode.Valid {
		query = s.db.Rebind(`
			SELECT id, standard_job_id, country_code,
				min_days_to_hire, max_days_to_hire, avg_days_to_hire,
				job_posting_count
			FROM days_to_hire_stats
			WHERE standard_job_id = ? AND country_code = ?`)
		args = []interface{}{standardJobID, countryCode.String}
	} else {
		query = s.db.Rebind(`
			SELECT id, standard_job_id, country_code,
				min_days_to_hire, max_days_to_hire, avg_days_to_hire,
				job_posting_count
			FROM days_to_hire_stats
			WHERE standard_job_id = ? AND country_code IS NULL`)
		args = []interface{}{standardJobID}
	}

	if err := s.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.DaysToHireStats{}, ErrNotFound
		}
		return model.DaysToHireStats{}, fmt.Errorf("lookup stats for %s: %w", standardJobID, err)
	}
	metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds()))
	return rec, nil
}

// StatsCount returns the number of persisted summary rows.
func (s *SQLStore) StatsCount(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var count int64
	if err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM days_to_hire_stats`); err != nil {
		return 0, fmt.Errorf("count stats records: %w", err)
	}
	return count, nil
}

// RecordRun appends an audit row for a completed aggregation run.
func (s *SQLStore) RecordRun(ctx context.Context, report model.RunReport) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := s.db.Rebind(`
		INSERT INTO stats_run (
			id, started_at, finished_at,
			postings_scanned, groups_total, groups_persisted
		) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		report.ID.String(), report.StartedAt, report.FinishedAt,
		report.PostingsScanned, report.GroupsTotal, report.GroupsPersisted)
	if err != nil {
		return fmt.Errorf("record run %s: %w", report.ID, err)
	}
	return nil
}

// InsertPostings bulk-inserts postings in one transaction.
func (s *SQLStore) InsertPostings(ctx context.Context, postings []model.JobPosting) error {
	if len(postings) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout*time.Duration(len(postings)/100+1))
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin posting insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	query := s.db.Rebind(`
		INSERT INTO job_posting (id, standard_job_id, country_code, days_to_hire)
		VALUES (?, ?, ?, ?)`)

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare posting insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range postings {
		if _, err := stmt.ExecContext(ctx, p.ID, p.StandardJobID, p.CountryCode, p.DaysToHire); err != nil {
			return fmt.Errorf("insert posting %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit posting insert: %w", err)
	}
	return nil
}
