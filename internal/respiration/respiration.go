// Package respiration estimates breathing rate from a PPG-like waveform by
// smoothing it into the respiratory band and measuring peak spacing.
package respiration

import (
	"math"

	"codeberg.org/mutker/biofeedback/internal/errors"
)

const (
	// MinSignalLength is the shortest waveform accepted by Rate.
	MinSignalLength = 100

	// Respiratory band in Hz.
	LowFreq  = 0.1
	HighFreq = 0.5

	secondsPerMinute = 60.0
)

// Estimate carries the rate together with the intermediate results it was
// derived from.
type Estimate struct {
	BreathsPerMinute float64 `json:"breaths_per_minute"`
	MeanInterval     float64 `json:"mean_interval_s"`
	Peaks            []int   `json:"peaks"`
}

// Rate returns the respiratory rate of signal in breaths per minute.
func Rate(signal []float64, samplingRate float64) (float64, error) {
	est, err := Analyze(signal, samplingRate)
	if err != nil {
		return 0, err
	}

	return est.BreathsPerMinute, nil
}

// Analyze runs the full estimation and returns the detected peaks as well.
func Analyze(signal []float64, samplingRate float64) (Estimate, error) {
	errFactory := errors.New()

	if samplingRate <= 0 || math.IsNaN(samplingRate) || math.IsInf(samplingRate, 0) {
		return Estimate{}, errFactory.WithData(ErrInvalidSamplingRate, samplingRate)
	}
	if len(signal) < MinSignalLength {
		return Estimate{}, errFactory.WithData(ErrSignalTooShort, len(signal))
	}

	filtered := BandpassFilter(signal, samplingRate, LowFreq, HighFreq)
	peaks := FindPeaks(filtered)
	if len(peaks) < 2 {
		return Estimate{}, errFactory.WithData(ErrInsufficientPeaks, len(peaks))
	}

	sum := 0.0
	for i := 1; i < len(peaks); i++ {
		sum += float64(peaks[i]-peaks[i-1]) / samplingRate
	}
	meanInterval := sum / float64(len(peaks)-1)

	return Estimate{
		BreathsPerMinute: secondsPerMinute / meanInterval,
		MeanInterval:     meanInterval,
		Peaks:            peaks,
	}, nil
}
