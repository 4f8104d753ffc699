// Package model contains domain models passed between layers.
package model

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DaysToHireStats is the persisted trimmed summary for one bucket.
// Rows are recomputed and replaced wholesale on every aggregation run;
// they carry no history across runs.
type DaysToHireStats struct {
	ID              string         `db:"id"`
	StandardJobID   string         `db:"standard_job_id"`
	CountryCode     sql.NullString `db:"country_code"`
	MinDaysToHire   int64          `db:"min_days_to_hire"`
	MaxDaysToHire   int64          `db:"max_days_to_hire"`
	AvgDaysToHire   int64          `db:"avg_days_to_hire"`
	JobPostingCount int64          `db:"job_posting_count"`
}

// StatsEntry mirrors the read shape returned by the lookup endpoint.
type StatsEntry struct {
	StandardJobID string  `json:"standard_job_id"`
	CountryCode   *string `json:"country_code"`
	MinDays       int64   `json:"min_days"`
	AvgDays       int64   `json:"avg_days"`
	MaxDays       int64   `json:"max_days"`
	JobPostings   int64   `json:"job_postings_number"`
}

// Entry converts a persisted record into its API read shape.
func (s DaysToHireStats) Entry() StatsEntry {
	e := StatsEntry{
		StandardJobID: s.StandardJobID,
		MinDays:       s.MinDaysToHire,
		AvgDays:       s.AvgDaysToHire,
		MaxDays:       s.MaxDaysToHire,
		JobPostings:   s.JobPostingCount,
	}
	if s.CountryCode.Valid {
		code := s.CountryCode.String
		e.CountryCode = &code
	}
	return e
}

// RunReport captures the outcome of one aggregation run for audit.
type RunReport struct {
	ID              uuid.UUID `db:"id"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      time.Time `db:"finished_at"`
	PostingsScanned int64     `db:"postings_scanned"`
	GroupsTotal     int64     `db:"groups_total"`
	GroupsPersisted int64     `db:"groups_persisted"`
}
