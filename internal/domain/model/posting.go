// Package model contains domain models passed between layers.
package model

import (
	"database/sql"
)

// JobPosting is a single posting row read from the record source.
// The table is externally owned; the engine only ever reads it.
type JobPosting struct {
	ID            string         `db:"id"`
	StandardJobID string         `db:"standard_job_id"`
	CountryCode   sql.NullString `db:"country_code"` // NULL means no country attribution
	DaysToHire    sql.NullInt64  `db:"days_to_hire"`
}

// GroupKey identifies one aggregation bucket. A key with an invalid
// CountryCode is the worldwide bucket for that job category and is never
// merged with country-specific keys.
type GroupKey struct {
	StandardJobID string
	CountryCode   sql.NullString
}

// Key builds the grouping key for a posting.
func (p JobPosting) Key() GroupKey {
	return GroupKey{StandardJobID: p.StandardJobID, CountryCode: p.CountryCode}
}

// StatsID returns the deterministic stats record id for this bucket,
// "{standard_job_id}_{country_code or world}".
func (k GroupKey) StatsID() string {
	if !k.CountryCode.Valid {
		return k.StandardJobID + "_world"
	}
	return k.StandardJobID + "_" + k.CountryCode.String
}
