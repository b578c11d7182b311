package statistics

import (
	"errors"
	"math"
	"sort"

	"github.com/moguls753/termbench/internal/benchmark"
)

// ErrNoSamples is returned when summarizing an empty sample sequence.
var ErrNoSamples = errors.New("statistics: no samples")

// Summary is the fixed metric set derived from a sample sequence.
type Summary struct {
	N      int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
	P50    float64
	P90    float64
	P95    float64
	P99    float64
}

// Summarize reduces samples to a Summary. Percentiles use nearest rank on the
// ascending order (sorted[floor(n*p)]) and fall back to the maximum when the sample
// count is below 10 (p90), 20 (p95) or 100 (p99).
func Summarize(samples []float64) (Summary, error) {
	n := len(samples)
	if n == 0 {
		return Summary{}, ErrNoSamples
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	return Summary{
		N:      n,
		Min:    sorted[0],
		Max:    sorted[n-1],
		Mean:   Mean(samples),
		Median: Median(samples),
		StdDev: StdDev(samples),
		P50:    sorted[rank(n, 0.50)],
		P90:    percentileOrMax(sorted, 0.90, 10),
		P95:    percentileOrMax(sorted, 0.95, 20),
		P99:    percentileOrMax(sorted, 0.99, 100),
	}, nil
}

// rank is floor(n*p); always < n for p < 1.
func rank(n int, p float64) int {
	return int(math.Floor(float64(n) * p))
}

func percentileOrMax(sorted []float64, p float64, minSamples int) float64 {
	n := len(sorted)
	if n < minSamples {
		return sorted[n-1]
	}
	return sorted[rank(n, p)]
}

// MetricSet renders the summary in the order min, max, mean, median, stdev, p50,
// p90, p95, p99, unit.
func (s Summary) MetricSet(unit string) benchmark.MetricSet {
	return benchmark.NewMetricSetBuilder().
		AddFloat("min", s.Min).
		AddFloat("max", s.Max).
		AddFloat("mean", s.Mean).
		AddFloat("median", s.Median).
		AddFloat("stdev", s.StdDev).
		AddFloat("p50", s.P50).
		AddFloat("p90", s.P90).
		AddFloat("p95", s.P95).
		AddFloat("p99", s.P99).
		AddText("unit", unit).
		Build()
}

// Median calculates the median of a slice of float64 values
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return sorted[n/2]
}

// Mean calculates the arithmetic mean
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev calculates the sample standard deviation; 0 for fewer than two values.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := Mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)-1))
}

// CV calculates the coefficient of variation (stddev/mean * 100)
func CV(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return (StdDev(values) / math.Abs(mean)) * 100
}

// HasOverlap checks if the value ranges of two sample sets overlap
func HasOverlap(a, b []float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	minA, maxA := bounds(a)
	minB, maxB := bounds(b)
	// No overlap if: Min A > Max B OR Min B > Max A
	return !(minA > maxB || minB > maxA)
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
