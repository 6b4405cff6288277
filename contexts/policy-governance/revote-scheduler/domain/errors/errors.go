package errors

import "errors"

var (
	ErrInvalidPositionInput    = errors.New("invalid position input")
	ErrPositionNotFound        = errors.New("position not found")
	ErrElectionNotFound        = errors.New("scheduled election not found")
	ErrElectionAlreadyCanceled = errors.New("scheduled election already cancelled")
	ErrUnknownTermDuration     = errors.New("unknown term duration")
)
