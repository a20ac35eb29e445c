package frame

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/exoview/internal/exodus"
)

// Stats summarizes a set of values. Every field but Count is NaN when
// Count is zero.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Median float64
}

func (s Stats) String() string {
	return fmt.Sprintf("n=%d min=%.6g max=%.6g mean=%.6g std=%.6g median=%.6g",
		s.Count, s.Min, s.Max, s.Mean, s.StdDev, s.Median)
}

// Summarize computes Stats over values.
func Summarize(values []float64) Stats {
	if len(values) == 0 {
		nan := math.NaN()
		return Stats{Min: nan, Max: nan, Mean: nan, StdDev: nan, Median: nan}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Stats{
		Count:  len(values),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   stat.Mean(values, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		StdDev: 0,
	}
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}

// Stats summarizes the value column.
func (f *Frame) Stats() Stats {
	return Summarize(f.Values())
}

// Range returns the min and max of variable over every step, so frames of
// one variable can share a colour range.
func Range(d *exodus.Data, variable string) (min, max float64, err error) {
	values, ok := d.Nodal[variable]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownVariable, variable)
	}
	min, max = math.Inf(1), math.Inf(-1)
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		min = math.Min(min, floats.Min(row))
		max = math.Max(max, floats.Max(row))
	}
	if math.IsInf(min, 1) {
		return 0, 0, nil
	}
	return min, max, nil
}

// StepMeans returns the mean of variable at each step.
func StepMeans(d *exodus.Data, variable string) ([]float64, error) {
	values, ok := d.Nodal[variable]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, variable)
	}
	out := make([]float64, len(values))
	for i, row := range values {
		out[i] = stat.Mean(row, nil)
	}
	return out, nil
}
