package respiration

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrSignalTooShort      = errors.ErrSignalTooShort
	ErrInsufficientPeaks   = errors.ErrInsufficientPeaks
	ErrInvalidSamplingRate = errors.ErrInvalidSamplingRate
)
