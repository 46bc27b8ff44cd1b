package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want Summary
	}{
		{
			name: "five samples",
			in:   []float64{3, 1, 5, 2, 4},
			want: Summary{
				Average: 3, StdDev: math.Sqrt(2.5), Min: 1, Median: 3,
				P90: 5, P95: 5, P98: 5, Max: 5, PerSecond: 1.0 / 3,
			},
		},
		{
			name: "single sample",
			in:   []float64{7},
			want: Summary{
				Average: 7, StdDev: 0, Min: 7, Median: 7,
				P90: 7, P95: 7, P98: 7, Max: 7, PerSecond: 1.0 / 7,
			},
		},
		{
			name: "zero timings",
			in:   []float64{0, 0},
			want: Summary{},
		},
		{
			name: "empty",
			in:   nil,
			want: Summary{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.in)
			assert.InDelta(t, tt.want.Average, got.Average, 1e-12)
			assert.InDelta(t, tt.want.StdDev, got.StdDev, 1e-12)
			assert.InDelta(t, tt.want.PerSecond, got.PerSecond, 1e-12)
			assert.Equal(t, tt.want.Min, got.Min)
			assert.Equal(t, tt.want.Median, got.Median)
			assert.Equal(t, tt.want.P90, got.P90)
			assert.Equal(t, tt.want.P95, got.P95)
			assert.Equal(t, tt.want.P98, got.P98)
			assert.Equal(t, tt.want.Max, got.Max)
		})
	}
}

func TestComputeTruncatingIndices(t *testing.T) {
	xs := make([]float64, 100)
	for i := range xs {
		xs[i] = float64(100 - i) // 100..1, unsorted on purpose
	}
	s := Compute(xs)

	// sorted[i] == i+1
	assert.Equal(t, 51.0, s.Median)
	assert.Equal(t, 91.0, s.P90)
	assert.Equal(t, 96.0, s.P95)
	assert.Equal(t, 99.0, s.P98)

	// Input is left untouched.
	assert.Equal(t, 100.0, xs[0])
}

func TestComputeEvenCountMedian(t *testing.T) {
	s := Compute([]float64{1, 2, 3, 4})
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 4.0, s.P90)
}
