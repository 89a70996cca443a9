// internal/loadtest/analyze.go
package loadtest

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// DefaultWindowSeconds is the fixed send window of the load generator.
// Throughput divides a batch's message count by this window.
const DefaultWindowSeconds = 120.0

var (
	// ErrNoBatches reports that discovery matched no results files.
	ErrNoBatches = errors.New("no result batches found")
	// ErrEmptyBatch reports a results file with a header but no rows.
	ErrEmptyBatch = errors.New("batch contains no samples")
	// ErrNoSummaries reports an efficiency request with nothing to compare.
	ErrNoSummaries = errors.New("no summaries to compare")
	// ErrZeroBaseline reports that the smallest load level classified as
	// unknown, leaving no baseline to extrapolate from.
	ErrZeroBaseline = errors.New("baseline load level is zero")
)

// ClassifyLoadLevel maps a batch label to its device count using
// ordered substring rules; the first match wins. Labels carrying more
// than one marker resolve to the earliest rule, so a label must stick
// to a single marker to classify precisely. Unrecognized labels
// classify as 0 and are excluded from efficiency baselines.
func ClassifyLoadLevel(label string) int {
	switch {
	case strings.Contains(label, "baseline") || strings.Contains(label, "10"):
		return 10
	case strings.Contains(label, "50"):
		return 50
	case strings.Contains(label, "100"):
		return 100
	case strings.Contains(label, "500"):
		return 500
	case strings.Contains(label, "1000"):
		return 1000
	default:
		return 0
	}
}

// Summarize reduces one batch of raw samples to a Summary. The window
// is the generator's send window in seconds and sets the throughput
// denominator; values <= 0 fall back to DefaultWindowSeconds.
func Summarize(label string, samples []RawSample, window float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("summarize %q: %w", label, ErrEmptyBatch)
	}
	if window <= 0 {
		window = DefaultWindowSeconds
	}

	latencies := make([]float64, 0, len(samples))
	successes := 0
	for _, s := range samples {
		if s.OK {
			successes++
		}
		latencies = append(latencies, s.LatencyMS)
	}
	sort.Float64s(latencies)

	total := len(samples)
	return Summary{
		Label:         label,
		Devices:       ClassifyLoadLevel(label),
		TotalMessages: total,
		SuccessRate:   float64(successes) / float64(total) * 100,
		AvgLatency:    meanFloat64(latencies),
		P50Latency:    Percentile(latencies, 0.50),
		P95Latency:    Percentile(latencies, 0.95),
		P99Latency:    Percentile(latencies, 0.99),
		Throughput:    float64(total) / window,
	}, nil
}

// ReduceAll summarizes every batch and orders the rows by device count
// ascending so tables and charts read smallest level to largest. Ties
// keep their discovery order.
func ReduceAll(batches []Batch, window float64) ([]Summary, error) {
	if len(batches) == 0 {
		return nil, ErrNoBatches
	}
	summaries := make([]Summary, 0, len(batches))
	for _, b := range batches {
		s, err := Summarize(b.Label, b.Samples, window)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Devices < summaries[j].Devices
	})
	return summaries, nil
}

// ComputeEfficiency compares each level's throughput with the linear
// ideal extrapolated from the smallest measured level. The smallest
// level is its own baseline and always reports 100 percent. A baseline
// that classified to the 0 sentinel makes the ideal undefined, so the
// whole computation fails rather than reporting infinities.
func ComputeEfficiency(summaries []Summary) ([]Efficiency, error) {
	if len(summaries) == 0 {
		return nil, ErrNoSummaries
	}

	base := summaries[0]
	for _, s := range summaries[1:] {
		if s.Devices < base.Devices {
			base = s
		}
	}
	if base.Devices == 0 {
		return nil, fmt.Errorf("%w (batch %q)", ErrZeroBaseline, base.Label)
	}

	perDevice := base.Throughput / float64(base.Devices)
	effs := make([]Efficiency, 0, len(summaries))
	for _, s := range summaries {
		ideal := float64(s.Devices) * perDevice
		percent := 0.0
		if ideal > 0 {
			percent = s.Throughput / ideal * 100
		}
		effs = append(effs, Efficiency{
			Devices:         s.Devices,
			Throughput:      s.Throughput,
			IdealThroughput: ideal,
			Percent:         percent,
		})
	}
	return effs, nil
}

// Percentile returns the q-quantile (0..1) of sorted values using
// linear interpolation between the two closest ranks.
func Percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower < 0 {
		return sorted[0]
	}
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*frac
}

// meanFloat64 returns the arithmetic mean of values, or 0 for an empty
// slice.
func meanFloat64(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
