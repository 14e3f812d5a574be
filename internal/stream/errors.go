package stream

import "codeberg.org/mutker/biofeedback/internal/errors"

const (
	ErrConnect         = errors.ErrConnect
	ErrSubscribe       = errors.ErrSubscribe
	ErrPublish         = errors.ErrPublish
	ErrDecodeInput     = errors.ErrDecodeInput
	ErrSessionNotFound = errors.ErrSessionNotFound
	ErrInvalidArgument = errors.ErrInvalidArgument
)
