package hrv

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrInsufficientData = errors.ErrInsufficientData
)
