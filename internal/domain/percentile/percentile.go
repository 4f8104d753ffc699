// Package percentile computes trimmed summaries over integer durations.
package percentile

import (
	"math"
	"sort"
)

// Default trimming band constants.
const (
	DefaultLowPct  = 10.0
	DefaultHighPct = 90.0
)

// Option applies a configuration option to the Trimmer.
type Option func(*Trimmer)

// WithBand sets the percentile band used for trimming.
func WithBand(lowPct, highPct float64) Option {
	return func(t *Trimmer) {
		if lowPct >= 0 && highPct <= 100 && lowPct <= highPct {
			t.lowPct = lowPct
			t.highPct = highPct
		}
	}
}

// Summary is the trimmed min/max/mean/count tuple for one bucket.
// Avg is the arithmetic mean truncated toward zero.
type Summary struct {
	Min   int64
	Max   int64
	Avg   int64
	Count int64
}

// Trimmer reduces a duration sample to a Summary after cutting values
// outside its percentile band.
type Trimmer struct {
	lowPct  float64
	highPct float64
}

// NewTrimmer creates a Trimmer with the default [10th, 90th] band.
func NewTrimmer(opts ...Option) *Trimmer {
	t := &Trimmer{
		lowPct:  DefaultLowPct,
		highPct: DefaultHighPct,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Trim computes the summary over the values falling inside the band,
// inclusive on both ends. The band bounds are percentiles of the full,
// untrimmed input. It reports false for an empty input or when the band
// retains nothing; the caller must not persist such buckets.
//
// Trim is pure: it never mutates values and its output is independent of
// input ordering.
func (t *Trimmer) Trim(values []int64) (Summary, bool) {
	if len(values) == 0 {
		return Summary{}, false
	}

	sorted := append([]int64(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	low := interpolate(sorted, t.lowPct)
	high := interpolate(sorted, t.highPct)

	var (
		sum      int64
		count    int64
		min, max int64
	)
	for _, v := range sorted {
		f := float64(v)
		if f < low || f > high {
			continue
		}
		if count == 0 {
			min, max = v, v
		} else {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		sum += v
		count++
	}
	if count == 0 {
		return Summary{}, false
	}

	return Summary{
		Min:   min,
		Max:   max,
		Avg:   int64(float64(sum) / float64(count)),
		Count: count,
	}, true
}

// interpolate returns the p-th percentile of a sorted sample using linear
// interpolation between adjacent order statistics (rank = p/100 * (n-1)).
func interpolate(sorted []int64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return float64(sorted[0])
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + frac*(float64(sorted[hi])-float64(sorted[lo]))
}
