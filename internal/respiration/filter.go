package respiration

import "math"

const minHalfWidth = 3

// WindowHalfWidth returns the moving-average half-width for a signal of n
// samples: samplingRate / ((lowFreq+highFreq)*2), rounded, then clamped to
// [3, n/4]. The lower clamp wins when n/4 < 3.
func WindowHalfWidth(samplingRate, lowFreq, highFreq float64, n int) int {
	w := int(math.Round(samplingRate / ((lowFreq + highFreq) * 2)))
	w = min(w, n/4)

	return max(minHalfWidth, w)
}

// BandpassFilter smooths signal with a symmetric moving average sized for
// the [lowFreq, highFreq] band. It only attenuates content above the band;
// there is no high-pass stage. Windows shrink at the edges, and the output
// has the same length as the input.
func BandpassFilter(signal []float64, samplingRate, lowFreq, highFreq float64) []float64 {
	w := WindowHalfWidth(samplingRate, lowFreq, highFreq, len(signal))

	filtered := make([]float64, len(signal))
	for i := range signal {
		start := max(0, i-w)
		end := min(len(signal), i+w+1)

		sum := 0.0
		for _, v := range signal[start:end] {
			sum += v
		}
		filtered[i] = sum / float64(end-start)
	}

	return filtered
}
