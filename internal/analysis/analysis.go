// Package analysis derives change-to-change interval statistics from a
// reading log and recommends a polling period.
package analysis

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/mutker/shellymon/internal/errors"
	"codeberg.org/mutker/shellymon/internal/sampler"
)

// minSafeGap is the smallest interior gap, in samples, for which halving
// the sampling rate still observes every change.
const minSafeGap = 2

// InsufficientDataText replaces the report when no statistics exist.
const InsufficientDataText = "Not enough data for analysis"

// Report holds the interval statistics of a session.
type Report struct {
	// TotalSamples and Changes are only set by Summarize.
	TotalSamples int
	Changes      int

	Period time.Duration
	// Interior holds the gaps the statistics are computed over.
	Interior []int

	MinSamples  int
	MeanSamples float64
	MaxSamples  int
}

// Analyze computes statistics over gaps sampled every period. The last
// gap is dropped as possibly incomplete, and at least two gaps are needed.
func Analyze(gaps []int, period time.Duration) (*Report, error) {
	errFactory := errors.New()

	if period <= 0 {
		return nil, errFactory.WithData(ErrInvalidPeriod, period)
	}
	if len(gaps) < 2 {
		return nil, errFactory.WithData(ErrInsufficientData, fmt.Sprintf("%d intervals observed", len(gaps)))
	}

	interior := append([]int(nil), gaps[:len(gaps)-1]...)

	minGap, maxGap, sum := interior[0], interior[0], 0
	for _, g := range interior {
		minGap = min(minGap, g)
		maxGap = max(maxGap, g)
		sum += g
	}

	return &Report{
		Period:      period,
		Interior:    interior,
		MinSamples:  minGap,
		MeanSamples: float64(sum) / float64(len(interior)),
		MaxSamples:  maxGap,
	}, nil
}

// Summarize runs change detection, gap extraction and Analyze over
// readings. The log is not modified.
func Summarize(readings []sampler.Reading, period time.Duration) (*Report, error) {
	return SummarizeChanges(DetectChanges(readings), len(readings), period)
}

// SummarizeChanges is Summarize for change indices that were already
// detected, for instance by a Detector during sampling.
func SummarizeChanges(changes []int, totalSamples int, period time.Duration) (*Report, error) {
	report, err := Analyze(Gaps(changes), period)
	if err != nil {
		return nil, err
	}
	report.TotalSamples = totalSamples
	report.Changes = len(changes)
	return report, nil
}

// MinDuration returns the smallest interior gap as elapsed time.
func (r *Report) MinDuration() time.Duration {
	return time.Duration(r.MinSamples) * r.Period
}

// MeanDuration returns the mean interior gap as elapsed time.
func (r *Report) MeanDuration() time.Duration {
	return time.Duration(r.MeanSamples * float64(r.Period))
}

// MaxDuration returns the largest interior gap as elapsed time.
func (r *Report) MaxDuration() time.Duration {
	return time.Duration(r.MaxSamples) * r.Period
}

// Recommendation returns the suggested sampling period and true when the
// fastest observed change would still be caught at half the current rate.
func (r *Report) Recommendation() (time.Duration, bool) {
	if r.MinSamples < minSafeGap {
		return 0, false
	}
	return 2 * r.Period, true
}

// String renders the report as the plain-text analysis file.
func (r *Report) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Total samples collected: %d\n", r.TotalSamples)
	fmt.Fprintf(&b, "Number of value changes: %d\n", r.Changes)
	b.WriteString("\nIntervals between value changes:\n")
	fmt.Fprintf(&b, "Minimum: %d samples (%.1f seconds)\n", r.MinSamples, r.MinDuration().Seconds())
	fmt.Fprintf(&b, "Average: %.1f samples (%.1f seconds)\n", r.MeanSamples, r.MeanDuration().Seconds())
	fmt.Fprintf(&b, "Maximum: %d samples (%.1f seconds)", r.MaxSamples, r.MaxDuration().Seconds())

	if next, ok := r.Recommendation(); ok {
		fmt.Fprintf(&b, "\n\nYou can safely increase the sampling interval to %.1f seconds\n", next.Seconds())
		fmt.Fprintf(&b, "(minimum interval between changes was %d samples)", r.MinSamples)
	}

	return b.String()
}

// Text renders the outcome of Summarize: the report, or the insufficient
// data notice. Other errors are returned unchanged.
func Text(report *Report, err error) (string, error) {
	if err != nil {
		if errors.HasCode(err, ErrInsufficientData) {
			return InsufficientDataText, nil
		}
		return "", err
	}
	return report.String(), nil
}
