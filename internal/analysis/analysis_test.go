package analysis_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/shellymon/internal/analysis"
	"codeberg.org/mutker/shellymon/internal/errors"
	"codeberg.org/mutker/shellymon/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func readings(ps ...float64) []sampler.Reading {
	rs := make([]sampler.Reading, len(ps))
	for i, p := range ps {
		rs[i] = sampler.Reading{Timestamp: epoch.Add(time.Duration(i) * time.Second), Power: p}
	}
	return rs
}

func TestDetectChanges(t *testing.T) {
	rs := readings(5, 5, 5, 7, 7, 7, 7, 3, 3, 9, 9, 9, 9, 9)

	changes := analysis.DetectChanges(rs)
	assert.Equal(t, []int{3, 7, 9}, changes)
	assert.Equal(t, []int{4, 2}, analysis.Gaps(changes))
}

func TestDetectChangesExactEquality(t *testing.T) {
	rs := readings(10, 10.000000001, 10.000000001, 10)

	assert.Equal(t, []int{1, 3}, analysis.DetectChanges(rs))
}

func TestNoChanges(t *testing.T) {
	rs := readings(4, 4, 4, 4, 4)

	changes := analysis.DetectChanges(rs)
	assert.Empty(t, changes)

	_, err := analysis.Summarize(rs, time.Second)
	assert.True(t, errors.HasCode(err, analysis.ErrInsufficientData))
}

func TestOneChange(t *testing.T) {
	rs := readings(4, 4, 6, 6, 6)

	changes := analysis.DetectChanges(rs)
	assert.Equal(t, []int{2}, changes)
	assert.Empty(t, analysis.Gaps(changes))

	_, err := analysis.Summarize(rs, time.Second)
	assert.True(t, errors.HasCode(err, analysis.ErrInsufficientData))
}

func TestEmptyLog(t *testing.T) {
	_, err := analysis.Summarize(nil, time.Second)
	assert.True(t, errors.HasCode(err, analysis.ErrInsufficientData))
}

func TestSummarizeDropsTrailingGap(t *testing.T) {
	rs := readings(5, 5, 5, 7, 7, 7, 7, 3, 3, 9, 9, 9, 9, 9)

	report, err := analysis.Summarize(rs, time.Second)
	require.NoError(t, err)

	assert.Equal(t, 14, report.TotalSamples)
	assert.Equal(t, 3, report.Changes)
	assert.Equal(t, []int{4}, report.Interior)
	assert.Equal(t, 4, report.MinSamples)
	assert.Equal(t, 4.0, report.MeanSamples)
	assert.Equal(t, 4, report.MaxSamples)

	next, ok := report.Recommendation()
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, next)
}

func TestAnalyzeStatistics(t *testing.T) {
	report, err := analysis.Analyze([]int{3, 6, 2, 5, 1}, 500*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 6, 2, 5}, report.Interior)
	assert.Equal(t, 2, report.MinSamples)
	assert.Equal(t, 4.0, report.MeanSamples)
	assert.Equal(t, 6, report.MaxSamples)
	assert.Equal(t, time.Second, report.MinDuration())
	assert.Equal(t, 2*time.Second, report.MeanDuration())
	assert.Equal(t, 3*time.Second, report.MaxDuration())
}

func TestAnalyzeInsufficient(t *testing.T) {
	for _, gaps := range [][]int{nil, {}, {7}} {
		_, err := analysis.Analyze(gaps, time.Second)
		assert.True(t, errors.HasCode(err, analysis.ErrInsufficientData), "gaps %v", gaps)
	}
}

func TestAnalyzeInvalidPeriod(t *testing.T) {
	_, err := analysis.Analyze([]int{2, 2}, 0)
	assert.True(t, errors.HasCode(err, analysis.ErrInvalidPeriod))
}

func TestAnalyzeDoesNotAliasInput(t *testing.T) {
	gaps := []int{3, 4, 5}
	report, err := analysis.Analyze(gaps, time.Second)
	require.NoError(t, err)

	report.Interior[0] = 100
	assert.Equal(t, []int{3, 4, 5}, gaps)
}

func TestRecommendationBoundary(t *testing.T) {
	// min = 1: no recommendation
	report, err := analysis.Analyze([]int{1, 3, 9}, time.Second)
	require.NoError(t, err)
	_, ok := report.Recommendation()
	assert.False(t, ok)
	assert.NotContains(t, report.String(), "You can safely increase")

	// min = 2: recommendation present
	report, err = analysis.Analyze([]int{2, 3, 1}, time.Second)
	require.NoError(t, err)
	next, ok := report.Recommendation()
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, next)
	assert.Contains(t, report.String(), "You can safely increase the sampling interval to 2.0 seconds")
	assert.Contains(t, report.String(), "(minimum interval between changes was 2 samples)")
}

func TestIdempotent(t *testing.T) {
	log := sampler.NewLog(readings(1, 1, 2, 2, 2, 3, 3, 3, 3, 1, 1, 2)...)

	first, err := analysis.Summarize(log.Readings(), time.Second)
	require.NoError(t, err)
	second, err := analysis.Summarize(log.Readings(), time.Second)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDetectorMatchesDetectChanges(t *testing.T) {
	rs := readings(0, 0, 1.5, 1.5, 1.5, 0, 2, 2, 2, 2, 0)

	d := analysis.NewDetector()
	for i, r := range rs {
		d.Observe(i, r)
	}

	assert.Equal(t, analysis.DetectChanges(rs), d.Changes())
	assert.Equal(t, []int{2, 5, 6, 10}, d.Changes())
}

func TestReportString(t *testing.T) {
	rs := readings(5, 5, 5, 7, 7, 7, 7, 3, 3, 9, 9, 9, 9, 9)
	report, err := analysis.Summarize(rs, time.Second)
	require.NoError(t, err)

	want := `Total samples collected: 14
Number of value changes: 3

Intervals between value changes:
Minimum: 4 samples (4.0 seconds)
Average: 4.0 samples (4.0 seconds)
Maximum: 4 samples (4.0 seconds)

You can safely increase the sampling interval to 2.0 seconds
(minimum interval between changes was 4 samples)`
	assert.Equal(t, want, report.String())
}

func TestText(t *testing.T) {
	text, err := analysis.Text(analysis.Summarize(readings(1, 1, 1), time.Second))
	require.NoError(t, err)
	assert.Equal(t, analysis.InsufficientDataText, text)

	_, err = analysis.Text(analysis.Analyze([]int{2, 2}, -time.Second))
	assert.True(t, errors.HasCode(err, analysis.ErrInvalidPeriod))

	text, err = analysis.Text(analysis.Analyze([]int{2, 2, 2}, time.Second))
	require.NoError(t, err)
	assert.Contains(t, text, "Minimum: 2 samples (2.0 seconds)")
}
