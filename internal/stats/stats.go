// Package stats provides the population statistics shared by the metric
// calculators.
package stats

import "math"

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
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

// StdDev returns the population standard deviation (divides by n).
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(values)))
}

// Diff returns the successive differences values[i+1]-values[i].
func Diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	out := make([]float64, len(values)-1)
	for i := range out {
		out[i] = values[i+1] - values[i]
	}

	return out
}

// Max returns the largest value, or 0 for an empty slice.
func Max(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}

	return m
}
