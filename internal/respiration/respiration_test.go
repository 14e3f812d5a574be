package respiration_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/respiration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, freq, samplingRate float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / samplingRate)
	}

	return out
}

func TestRateSineWave(t *testing.T) {
	bpm, err := respiration.Rate(sine(300, 0.2, 30), 30)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, bpm, 8.0)
	assert.LessOrEqual(t, bpm, 20.0)
	assert.InDelta(t, 12.0, bpm, 0.5)
}

func TestAnalyzeReportsPeaks(t *testing.T) {
	est, err := respiration.Analyze(sine(300, 0.2, 30), 30)
	require.NoError(t, err)

	require.Len(t, est.Peaks, 2)
	assert.InDelta(t, 150, est.Peaks[1]-est.Peaks[0], 1)
	assert.InDelta(t, 5.0, est.MeanInterval, 0.05)
	assert.InDelta(t, 60/est.MeanInterval, est.BreathsPerMinute, 1e-9)
}

func TestRateSignalTooShort(t *testing.T) {
	for _, n := range []int{0, 1, 50, respiration.MinSignalLength - 1} {
		_, err := respiration.Rate(sine(n, 0.2, 30), 30)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, respiration.ErrSignalTooShort), "n=%d", n)
	}
}

func TestRateInsufficientPeaks(t *testing.T) {
	flat := make([]float64, respiration.MinSignalLength)
	for i := range flat {
		flat[i] = 1
	}

	_, err := respiration.Rate(flat, 30)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, respiration.ErrInsufficientPeaks))

	// a single breath in 100 samples
	_, err = respiration.Rate(sine(100, 0.2, 30), 30)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, respiration.ErrInsufficientPeaks))
}

func TestRateInvalidSamplingRate(t *testing.T) {
	signal := sine(300, 0.2, 30)
	for _, fs := range []float64{0, -30, math.NaN(), math.Inf(1)} {
		_, err := respiration.Rate(signal, fs)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, respiration.ErrInvalidSamplingRate), "fs=%v", fs)
	}
}

func TestAnalyzeIsIdempotent(t *testing.T) {
	signal := sine(300, 0.2, 30)
	orig := append([]float64(nil), signal...)

	first, err := respiration.Analyze(signal, 30)
	require.NoError(t, err)
	second, err := respiration.Analyze(signal, 30)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, orig, signal)
}

func TestWindowHalfWidth(t *testing.T) {
	tests := []struct {
		name string
		fs   float64
		n    int
		want int
	}{
		{"nominal", 30, 300, 25},
		{"clamped to quarter length", 30, 40, 10},
		{"lower bound on short signal", 30, 8, 3},
		{"lower bound on low rate", 1, 300, 3},
		{"high rate", 250, 2000, 208},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respiration.WindowHalfWidth(tt.fs, respiration.LowFreq, respiration.HighFreq, tt.n))
		})
	}
}

func TestBandpassFilter(t *testing.T) {
	t.Run("preserves length", func(t *testing.T) {
		for _, n := range []int{0, 1, 7, 300} {
			assert.Len(t, respiration.BandpassFilter(make([]float64, n), 30, 0.1, 0.5), n)
		}
	})

	t.Run("constant signal unchanged", func(t *testing.T) {
		signal := []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 2}
		assert.Equal(t, signal, respiration.BandpassFilter(signal, 30, 0.1, 0.5))
	})

	t.Run("edge windows shrink", func(t *testing.T) {
		// half-width is clamped up to 3
		signal := []float64{0, 1, 2, 3, 4, 5, 6, 7}
		out := respiration.BandpassFilter(signal, 30, 0.1, 0.5)

		assert.InDelta(t, 1.5, out[0], 1e-12) // [0,4)
		assert.InDelta(t, 2.0, out[1], 1e-12) // [0,5)
		assert.InDelta(t, 4.0, out[4], 1e-12) // [1,8)
		assert.InDelta(t, 5.5, out[7], 1e-12) // [4,8)
	})
}

func TestFindPeaks(t *testing.T) {
	tests := []struct {
		name   string
		signal []float64
		want   []int
	}{
		{"too short", []float64{0, 1}, nil},
		{"single interior peak", []float64{0, 3, 0}, []int{1}},
		{"below half of maximum", []float64{0, 1, 0, 4, 0}, []int{3}},
		{"exactly half of maximum", []float64{0, 2, 0, 4, 0}, []int{3}},
		{"plateau", []float64{0, 2, 2, 0}, nil},
		{"endpoints", []float64{5, 1, 1, 1, 5}, nil},
		{"two peaks", []float64{0, 3, 1, 4, 0}, []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, respiration.FindPeaks(tt.signal))
		})
	}
}
