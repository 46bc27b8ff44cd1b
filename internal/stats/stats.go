// Package stats aggregates browse timings into load-test summaries.
//
// Percentiles use a truncating index into the sorted samples
// (sorted[int(n*p)]) and the median is sorted[n/2], so results are
// reproducible and match the classic load-test report.
package stats

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrInvalidCount is returned when a perf run asks for fewer than one iteration.
var ErrInvalidCount = errors.New("perf count must be at least 1")

// Summary describes one series of timings, in seconds.
type Summary struct {
	Average   float64 `json:"average" yaml:"average"`
	StdDev    float64 `json:"std_dev" yaml:"std_dev"`
	Min       float64 `json:"min" yaml:"min"`
	Median    float64 `json:"median" yaml:"median"`
	P90       float64 `json:"p90" yaml:"p90"`
	P95       float64 `json:"p95" yaml:"p95"`
	P98       float64 `json:"p98" yaml:"p98"`
	Max       float64 `json:"max" yaml:"max"`
	PerSecond float64 `json:"per_second" yaml:"per_second"`
}

// Compute summarizes xs. An empty series yields a zero Summary.
func Compute(xs []float64) Summary {
	n := len(xs)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, xs)
	sort.Float64s(sorted)

	s := Summary{
		Average: stat.Mean(xs, nil),
		Min:     sorted[0],
		Median:  sorted[n/2],
		P90:     sorted[percentileIndex(n, 0.90)],
		P95:     sorted[percentileIndex(n, 0.95)],
		P98:     sorted[percentileIndex(n, 0.98)],
		Max:     sorted[n-1],
	}
	// Sample deviation; a single sample has none.
	if n > 1 {
		s.StdDev = stat.StdDev(xs, nil)
	}
	if s.Average > 0 {
		s.PerSecond = 1 / s.Average
	}
	return s
}

func percentileIndex(n int, p float64) int {
	return min(int(float64(n)*p), n-1)
}
