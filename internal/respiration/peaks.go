package respiration

import "codeberg.org/mutker/biofeedback/internal/stats"

const peakThresholdRatio = 0.5

// FindPeaks returns the interior indices whose value exceeds half the signal
// maximum and is strictly greater than both neighbours. Endpoints and flat
// tops are never reported.
func FindPeaks(signal []float64) []int {
	if len(signal) < 3 {
		return nil
	}

	threshold := stats.Max(signal) * peakThresholdRatio

	var peaks []int
	for i := 1; i < len(signal)-1; i++ {
		if signal[i] > threshold && signal[i] > signal[i-1] && signal[i] > signal[i+1] {
			peaks = append(peaks, i)
		}
	}

	return peaks
}
