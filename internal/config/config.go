// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
)

// Default tunables for the aggregation engine.
const (
	DefaultPageSize       = 1000
	DefaultMinJobPostings = 5
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver selects the database/sql driver: sqlite3 or postgres.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver-specific data source name.
	DBDSN string `koanf:"db_dsn"`

	// PageSize bounds each posting page fetched by the aggregation run.
	PageSize int `koanf:"page_size"`

	// MinJobPostings is the minimum trimmed sample size required to
	// persist a bucket.
	MinJobPostings int `koanf:"min_job_postings"`

	// QueryTimeoutMS bounds individual store round trips.
	QueryTimeoutMS int `koanf:"query_timeout_ms"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8080",
		DBDriver:       "sqlite3",
		DBDSN:          "hirestats.db",
		PageSize:       DefaultPageSize,
		MinJobPostings: DefaultMinJobPostings,
		QueryTimeoutMS: 5000,
	}
}
