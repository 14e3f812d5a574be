package facial

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrNoFacialData    = errors.ErrNoFacialData
	ErrInvalidArgument = errors.ErrInvalidArgument
)
