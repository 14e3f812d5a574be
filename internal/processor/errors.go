package processor

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrInvalidSamplingRate = errors.ErrInvalidSamplingRate
	ErrInsufficientData    = errors.ErrInsufficientData
	ErrNoFacialData        = errors.ErrNoFacialData
	ErrSignalTooShort      = errors.ErrSignalTooShort
	ErrInsufficientPeaks   = errors.ErrInsufficientPeaks
	ErrInvalidArgument     = errors.ErrInvalidArgument
)
