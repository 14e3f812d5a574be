package pulse

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrInsufficientPeaks   = errors.ErrInsufficientPeaks
	ErrInvalidSamplingRate = errors.ErrInvalidSamplingRate
)
