package session

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrSessionNotFound     = errors.ErrSessionNotFound
	ErrInvalidSamplingRate = errors.ErrInvalidSamplingRate
	ErrInsufficientPeaks   = errors.ErrInsufficientPeaks
)
