// Package hrv computes time-domain heart-rate-variability statistics from RR
// intervals expressed in milliseconds.
package hrv

import (
	"math"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/stats"
)

const (
	// MinIntervals is the smallest series the statistics are defined for.
	MinIntervals = 2

	nn50Threshold = 50.0
)

// Metrics holds RMSSD and SDNN in milliseconds and pNN50 in percent.
type Metrics struct {
	RMSSD float64 `json:"rmssd"`
	SDNN  float64 `json:"sdnn"`
	PNN50 float64 `json:"pnn50"`
}

// Compute returns all three statistics for rr.
func Compute(rr []float64) (Metrics, error) {
	if len(rr) < MinIntervals {
		return Metrics{}, errors.New().WithData(ErrInsufficientData, len(rr))
	}

	return Metrics{
		RMSSD: RMSSD(rr),
		SDNN:  SDNN(rr),
		PNN50: PNN50(rr),
	}, nil
}

// RMSSD is the root mean square of successive differences.
func RMSSD(rr []float64) float64 {
	diffs := stats.Diff(rr)
	if len(diffs) == 0 {
		return 0
	}

	sumSq := 0.0
	for _, d := range diffs {
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(diffs)))
}

// SDNN is the population standard deviation of the intervals.
func SDNN(rr []float64) float64 {
	return stats.StdDev(rr)
}

// PNN50 is the percentage of successive differences larger than 50ms.
func PNN50(rr []float64) float64 {
	diffs := stats.Diff(rr)
	if len(diffs) == 0 {
		return 0
	}

	count := 0
	for _, d := range diffs {
		if math.Abs(d) > nn50Threshold {
			count++
		}
	}

	return float64(count) / float64(len(diffs)) * 100
}
