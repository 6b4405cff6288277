package errors

import "errors"

var (
	ErrInvalidVoteInput       = errors.New("invalid vote input")
	ErrInvalidSessionInput    = errors.New("invalid voting session input")
	ErrVoteNotFound           = errors.New("vote not found")
	ErrSessionNotFound        = errors.New("voting session not found")
	ErrSessionClosed          = errors.New("voting session is closed")
	ErrSessionAlreadyClosed   = errors.New("voting session is already closed")
	ErrDuplicateVote          = errors.New("voter has already voted in this session")
	ErrWrongSessionKind       = errors.New("operation does not match session kind")
	ErrUnknownMajorityType    = errors.New("unknown majority type")
	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyConflict    = errors.New("idempotency key conflict")
)
