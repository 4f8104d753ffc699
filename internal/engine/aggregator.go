// Package engine runs the days-to-hire aggregation batch: it streams eligible
// postings page by page, buckets durations by (job, country), trims each
// bucket to its percentile band, and hands the surviving summaries to the
// sink in one atomic batch.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hirelens/hirestats/internal/domain/model"
	"github.com/hirelens/hirestats/internal/domain/percentile"
	"github.com/hirelens/hirestats/pkg/logger"
	"github.com/hirelens/hirestats/pkg/metrics"
)

// Default engine configuration constants.
const (
	DefaultPageSize    = 1000
	DefaultMinPostings = 5
)

// Source streams eligible job postings in fixed-size pages. The underlying
// store must keep a stable order across calls within one run; results are
// undefined otherwise.
type Source interface {
	CountEligible(ctx context.Context) (int64, error)
	FetchPage(ctx context.Context, offset, limit int) ([]model.JobPosting, error)
}

// Sink persists trimmed summaries as one atomic batch.
type Sink interface {
	UpsertAll(ctx context.Context, records []model.DaysToHireStats) error
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithPageSize sets the posting page size.
func WithPageSize(size int) Option {
	return func(a *Aggregator) {
		if size > 0 {
			a.pageSize = size
		}
	}
}

// WithMinPostings sets the minimum trimmed sample size required to persist
// a bucket.
func WithMinPostings(count int) Option {
	return func(a *Aggregator) {
		if count > 0 {
			a.minPostings = count
		}
	}
}

// WithTrimmer sets a custom percentile trimmer.
func WithTrimmer(t *percentile.Trimmer) Option {
	return func(a *Aggregator) {
		if t != nil {
			a.trimmer = t
		}
	}
}

// WithLogger sets a custom logger for the aggregator.
func WithLogger(log logger.Logger) Option {
	return func(a *Aggregator) {
		if log != nil {
			a.log = log
		}
	}
}

// Aggregator drives one aggregation run over a source and a sink. It holds
// the full bucket map in memory; paging bounds query load, not aggregate
// memory.
type Aggregator struct {
	source      Source
	sink        Sink
	trimmer     *percentile.Trimmer
	pageSize    int
	minPostings int
	log         logger.Logger
}

// New constructs an Aggregator over the given source and sink.
func New(source Source, sink Sink, opts ...Option) *Aggregator {
	a := &Aggregator{
		source:      source,
		sink:        sink,
		trimmer:     percentile.NewTrimmer(),
		pageSize:    DefaultPageSize,
		minPostings: DefaultMinPostings,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.Get()
	}
	return a
}

// Run executes one aggregation pass. Any fetch or persist failure aborts the
// run; nothing is committed on failure and no checkpoint is kept. Rerunning
// on unchanged input produces identical persisted records.
func (a *Aggregator) Run(ctx context.Context) (model.RunReport, error) {
	report := model.RunReport{
		ID:        uuid.New(),
		StartedAt: time.Now().UTC(),
	}

	groups, scanned, err := a.groupAll(ctx)
	if err != nil {
		metrics.RecordRunFailure()
		return report, err
	}
	report.PostingsScanned = scanned
	report.GroupsTotal = int64(len(groups))

	records := a.summarize(groups)
	report.GroupsPersisted = int64(len(records))

	if err := a.sink.UpsertAll(ctx, records); err != nil {
		metrics.RecordRunFailure()
		return report, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	report.FinishedAt = time.Now().UTC()

	durationMs := float64(report.FinishedAt.Sub(report.StartedAt).Milliseconds())
	metrics.RecordRunCompleted(durationMs)
	metrics.UpdateGroupsTotal(len(groups))
	metrics.UpdateGroupsPersisted(len(records))

	a.log.Info(ctx, "aggregation run finished",
		logger.String("run_id", report.ID.String()),
		logger.Int64("postings_scanned", report.PostingsScanned),
		logger.Int64("groups_total", report.GroupsTotal),
		logger.Int64("groups_persisted", report.GroupsPersisted),
		logger.Float64("duration_ms", durationMs),
	)
	return report, nil
}

// groupAll streams pages from the source and buckets durations by group key.
// The eligible total is taken up front; the loop covers it in pageSize steps.
func (a *Aggregator) groupAll(ctx context.Context) (map[model.GroupKey][]int64, int64, error) {
	total, err := a.source.CountEligible(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrSourceFetch, err)
	}

	groups := make(map[model.GroupKey][]int64)
	var scanned int64
	for offset := int64(0); offset < total; offset += int64(a.pageSize) {
		page, err := a.source.FetchPage(ctx, int(offset), a.pageSize)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrSourceFetch, err)
		}
		if len(page) == 0 {
			// The source shrank underneath the run; stop rather than spin.
			break
		}
		for _, posting := range page {
			if !posting.DaysToHire.Valid {
				continue
			}
			key := posting.Key()
			groups[key] = append(groups[key], posting.DaysToHire.Int64)
			scanned++
		}
		metrics.RecordPageFetched(len(page))
	}
	return groups, scanned, nil
}

// summarize trims every bucket and drops those below the minimum sample
// threshold. Records are ordered by id so the upsert batch is deterministic.
func (a *Aggregator) summarize(groups map[model.GroupKey][]int64) []model.DaysToHireStats {
	records := make([]model.DaysToHireStats, 0, len(groups))
	for key, values := range groups {
		summary, ok := a.trimmer.Trim(values)
		if !ok || summary.Count < int64(a.minPostings) {
			continue
		}
		records = append(records, model.DaysToHireStats{
			ID:              key.StatsID(),
			StandardJobID:   key.StandardJobID,
			CountryCode:     key.CountryCode,
			MinDaysToHire:   summary.Min,
			MaxDaysToHire:   summary.Max,
			AvgDaysToHire:   summary.Avg,
			JobPostingCount: summary.Count,
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}
