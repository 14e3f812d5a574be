package hrv_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/biofeedback/internal/errors"
	"codeberg.org/mutker/biofeedback/internal/hrv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeReferenceSeries(t *testing.T) {
	m, err := hrv.Compute([]float64{800, 820, 810, 830, 815})
	require.NoError(t, err)

	assert.InDelta(t, math.Sqrt((400.0+100+400+225)/4), m.RMSSD, 1e-9)
	assert.InDelta(t, 16.77, m.RMSSD, 0.01)
	assert.InDelta(t, math.Sqrt(100), m.SDNN, 1e-9)
	assert.Equal(t, 0.0, m.PNN50)
}

func TestSDNNConstantSeries(t *testing.T) {
	assert.Equal(t, 0.0, hrv.SDNN([]float64{100, 100, 100}))
}

func TestPNN50CountsStrictlyGreater(t *testing.T) {
	// diffs: 50 (not counted), -60, 51, 0
	rr := []float64{800, 850, 790, 841, 841}
	assert.InDelta(t, 50.0, hrv.PNN50(rr), 1e-9)
}

func TestComputeRequiresTwoIntervals(t *testing.T) {
	for _, rr := range [][]float64{nil, {800}} {
		_, err := hrv.Compute(rr)
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, hrv.ErrInsufficientData))
	}

	m, err := hrv.Compute([]float64{800, 900})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, m.RMSSD, 1e-9)
	assert.InDelta(t, 50.0, m.SDNN, 1e-9)
	assert.Equal(t, 100.0, m.PNN50)
}

func TestComputeDoesNotModifyInput(t *testing.T) {
	rr := []float64{800, 820, 810}
	_, err := hrv.Compute(rr)
	require.NoError(t, err)
	assert.Equal(t, []float64{800, 820, 810}, rr)
}
