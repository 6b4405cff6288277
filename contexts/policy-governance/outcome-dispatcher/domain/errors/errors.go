package errors

import "errors"

var (
	ErrInvalidDispatchInput = errors.New("invalid dispatch input")
	ErrUnknownResult        = errors.New("unknown session result")
	ErrOutcomeConflict      = errors.New("agenda item already has a different outcome")
)
