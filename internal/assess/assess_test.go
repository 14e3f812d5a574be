package assess_test

import (
	"testing"

	"codeberg.org/mutker/biofeedback/internal/assess"
	"codeberg.org/mutker/biofeedback/internal/facial"
	"codeberg.org/mutker/biofeedback/internal/hrv"
	"github.com/stretchr/testify/assert"
)

func TestStressIndex(t *testing.T) {
	assert.InDelta(t, 98.323, assess.StressIndex(16.77), 0.001)
	assert.Equal(t, 0.0, assess.StressIndex(1000))
	assert.Equal(t, 0.0, assess.StressIndex(5000))
	assert.Equal(t, 100.0, assess.StressIndex(0))
}

func TestStressLevel(t *testing.T) {
	assert.Equal(t, "Low", assess.StressLevel(29.9).Label)
	assert.Equal(t, "Moderate", assess.StressLevel(30).Label)
	assert.Equal(t, "Moderate", assess.StressLevel(59.9).Label)
	assert.Equal(t, "High", assess.StressLevel(60).Label)

	s := assess.AssessStress(hrv.Metrics{RMSSD: 500})
	assert.Equal(t, 50.0, s.Index)
	assert.Equal(t, assess.SeverityFair, s.Level.Severity)
}

func TestFacialBands(t *testing.T) {
	tests := []struct {
		name  string
		level func(float64) assess.Level
		value float64
		want  string
	}{
		{"tension relaxed", assess.TensionLevel, 0.29, "Relaxed"},
		{"tension moderate", assess.TensionLevel, 0.3, "Moderate"},
		{"tension high", assess.TensionLevel, 0.6, "High"},
		{"eye still", assess.EyeMovementLevel, 0.1, "Still"},
		{"eye moderate", assess.EyeMovementLevel, 0.2, "Moderate"},
		{"eye active", assess.EyeMovementLevel, 0.5, "Active"},
		{"blink normal", assess.BlinkRateLevel, 0.05, "Normal"},
		{"blink frequent", assess.BlinkRateLevel, 0.1, "Frequent"},
		{"blink very frequent", assess.BlinkRateLevel, 0.3, "Very Frequent"},
		{"symmetry balanced", assess.SymmetryLevel, 0.81, "Balanced"},
		{"symmetry slight", assess.SymmetryLevel, 0.8, "Slight Asymmetry"},
		{"symmetry asymmetric", assess.SymmetryLevel, 0.6, "Asymmetric"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.level(tt.value).Label)
		})
	}
}

func TestAssessFacial(t *testing.T) {
	f := assess.AssessFacial(facial.Metrics{
		MeanTension:     0.2,
		MeanEyeMovement: 0.1,
		MeanBlinkRate:   0.0,
		MeanSymmetry:    0.9,
	})

	// (0.8 + 0.9 + 1.0 + 0.9) / 4
	assert.Equal(t, 90, f.Relaxation)
	assert.Equal(t, "Very Relaxed", f.RelaxationLevel.Label)
	assert.Equal(t, "Relaxed", f.Tension.Label)
	assert.Equal(t, "Balanced", f.Symmetry.Label)

	tense := assess.AssessFacial(facial.Metrics{
		MeanTension:     1.5,
		MeanEyeMovement: 1,
		MeanBlinkRate:   1,
		MeanSymmetry:    0.2,
	})
	assert.Equal(t, 5, tense.Relaxation)
	assert.Equal(t, "Very Tense", tense.RelaxationLevel.Label)
}
