// Package pulse derives heart rate and beat-to-beat intervals from a pulse
// waveform by measuring the spacing of its peaks.
package pulse

import (
	"math"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/respiration"
)

const (
	secondsPerMinute = 60.0
	msPerSecond      = 1000.0
)

// Beats is the result of one pass over a pulse waveform.
type Beats struct {
	HeartRate   float64   `json:"heart_rate"`
	RRIntervals []float64 `json:"rr_intervals"`
	Peaks       []int     `json:"peaks"`
}

// Analyze detects peaks in signal and converts their spacing into RR
// intervals in milliseconds and a mean heart rate in beats per minute.
// Fewer than two peaks is an error.
func Analyze(signal []float64, samplingRate float64) (Beats, error) {
	errFactory := errors.New()

	if samplingRate <= 0 || math.IsNaN(samplingRate) || math.IsInf(samplingRate, 0) {
		return Beats{}, errFactory.WithData(ErrInvalidSamplingRate, samplingRate)
	}

	peaks := respiration.FindPeaks(signal)
	if len(peaks) < 2 {
		return Beats{}, errFactory.WithData(ErrInsufficientPeaks, len(peaks))
	}

	intervals := make([]float64, 0, len(peaks)-1)
	spacing := 0
	for i := 1; i < len(peaks); i++ {
		d := peaks[i] - peaks[i-1]
		spacing += d
		intervals = append(intervals, float64(d)*msPerSecond/samplingRate)
	}
	meanSpacing := float64(spacing) / float64(len(peaks)-1)

	return Beats{
		HeartRate:   secondsPerMinute / (meanSpacing / samplingRate),
		RRIntervals: intervals,
		Peaks:       peaks,
	}, nil
}

// HeartRate returns the mean heart rate of signal in beats per minute.
func HeartRate(signal []float64, samplingRate float64) (float64, error) {
	b, err := Analyze(signal, samplingRate)
	if err != nil {
		return 0, err
	}

	return b.HeartRate, nil
}

// RRIntervals returns the spacing of consecutive peaks in milliseconds.
func RRIntervals(signal []float64, samplingRate float64) ([]float64, error) {
	b, err := Analyze(signal, samplingRate)
	if err != nil {
		return nil, err
	}

	return b.RRIntervals, nil
}
