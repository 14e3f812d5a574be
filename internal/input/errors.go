package input

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrReadInput           = errors.ErrReadInput
	ErrDecodeInput         = errors.ErrDecodeInput
	ErrInvalidSamplingRate = errors.ErrInvalidSamplingRate
)
