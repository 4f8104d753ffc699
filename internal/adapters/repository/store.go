// Package repository defines the posting source and stats store backed by SQL.
package repository

import (
	"context"
	"database/sql"

	"github.com/hirelens/hirestats/internal/domain/model"
)

// PostingSource streams eligible job postings (non-null days_to_hire) in
// fixed-size pages. Pages are ordered by posting id so offsets stay stable
// across calls within one run.
type PostingSource interface {
	// CountEligible returns the number of postings with a days_to_hire value.
	CountEligible(ctx context.Context) (int64, error)

	// FetchPage returns up to limit eligible postings starting at offset.
	FetchPage(ctx context.Context, offset, limit int) ([]model.JobPosting, error)
}

// StatsStore persists and serves trimmed days-to-hire summaries.
type StatsStore interface {
	// UpsertAll writes all records in one transaction, inserting new ids and
	// overwriting every field of existing ones. Either all records persist
	// or none do.
	UpsertAll(ctx context.Context, records []model.DaysToHireStats) error

	// Lookup returns the record for (standardJobID, countryCode). An invalid
	// countryCode matches only the worldwide row (NULL country), never a
	// concrete country. Returns ErrNotFound when no row matches.
	Lookup(ctx context.Context, standardJobID string, countryCode sql.NullString) (model.DaysToHireStats, error)

	// StatsCount returns the number of persisted summary rows.
	StatsCount(ctx context.Context) (int64, error)

	// RecordRun appends an audit row for a completed aggregation run.
	RecordRun(ctx context.Context, report model.RunReport) error
}

// Store bundles both roles backed by one database.
type Store interface {
	PostingSource
	StatsStore

	// InsertPostings bulk-inserts postings; used by the seed tool and tests.
	InsertPostings(ctx context.Context, postings []model.JobPosting) error

	Close() error
}
