// Package seed generates synthetic job postings for local development and
// load testing. Durations are drawn from a handful of hiring profiles so the
// resulting buckets have realistic spread and the odd outlier for the
// percentile trim to cut.
package seed

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	repository "github.com/hirelens/hirestats/internal/adapters/repository"
	"github.com/hirelens/hirestats/internal/domain/model"
	"github.com/hirelens/hirestats/pkg/logger"
)

// Default generation parameters.
const (
	DefaultNumPostings = 10000
	DefaultNumJobs     = 20
	DefaultBatchSize   = 500

	randomDivisor = 1000000
)

// Constants for hiring profile cases.
const (
	caseFastHire    = 0
	caseTypicalHire = 1
	caseSlowHire    = 2
	caseStalledHire = 3
)

// Duration ranges per hiring profile, in days.
const (
	fastHireMin      = 3
	fastHireRange    = 7
	typicalHireMin   = 10
	typicalHireRange = 20
	slowHireMin      = 30
	slowHireRange    = 40
	stalledHireMin   = 90
	stalledHireRange = 120
)

// Config holds generation parameters for one seeding run.
type Config struct {
	NumPostings int      // Number of postings to generate
	NumJobs     int      // Number of distinct standard job ids
	Countries   []string // Country codes to draw from; empty entries mean worldwide
	BatchSize   int      // Insert batch size
	MissingRate float64  // Fraction of postings without a days_to_hire value
}

// DefaultConfig returns a Config that produces a usable local dataset.
func DefaultConfig() *Config {
	return &Config{
		NumPostings: DefaultNumPostings,
		NumJobs:     DefaultNumJobs,
		Countries:   []string{"", "US", "DE", "GB", "NL", "FR"},
		BatchSize:   DefaultBatchSize,
		MissingRate: 0.1,
	}
}

// randomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomDivisor))
	return float64(n.Int64()) / float64(randomDivisor)
}

// randomInt returns a random int in [0, n).
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// Generate produces cfg.NumPostings synthetic postings with uuid ids.
func Generate(cfg *Config) []model.JobPosting {
	postings := make([]model.JobPosting, 0, cfg.NumPostings)
	for i := 0; i < cfg.NumPostings; i++ {
		p := model.JobPosting{
			ID:            uuid.New().String(),
			StandardJobID: fmt.Sprintf("SJ%03d", randomInt(cfg.NumJobs)+1),
		}
		if len(cfg.Countries) > 0 {
			if cc := cfg.Countries[randomInt(len(cfg.Countries))]; cc != "" {
				p.CountryCode.String = cc
				p.CountryCode.Valid = true
			}
		}
		if randomFloat() >= cfg.MissingRate {
			p.DaysToHire.Int64 = randomDays()
			p.DaysToHire.Valid = true
		}
		postings = append(postings, p)
	}
	return postings
}

// randomDays draws a duration from one of the hiring profiles.
func randomDays() int64 {
	switch randomInt(4) {
	case caseFastHire:
		return int64(fastHireMin + randomInt(fastHireRange))
	case caseTypicalHire:
		return int64(typicalHireMin + randomInt(typicalHireRange))
	case caseSlowHire:
		return int64(slowHireMin + randomInt(slowHireRange))
	case caseStalledHire:
		return int64(stalledHireMin + randomInt(stalledHireRange))
	default:
		return typicalHireMin
	}
}

// Run generates postings and inserts them into the store in batches.
func Run(ctx context.Context, store repository.Store, cfg *Config) (int, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := logger.Get()

	start := time.Now()
	log.Info(ctx, "seeding job postings",
		logger.Int("postings", cfg.NumPostings),
		logger.Int("jobs", cfg.NumJobs),
		logger.Int("batch_size", cfg.BatchSize))

	postings := Generate(cfg)

	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	for offset := 0; offset < len(postings); offset += batch {
		end := offset + batch
		if end > len(postings) {
			end = len(postings)
		}
		if err := store.InsertPostings(ctx, postings[offset:end]); err != nil {
			return offset, fmt.Errorf("insert seed batch at %d: %w", offset, err)
		}
	}

	log.Info(ctx, "seeding finished",
		logger.Int("postings", len(postings)),
		logger.String("elapsed", time.Since(start).String()))
	return len(postings), nil
}
