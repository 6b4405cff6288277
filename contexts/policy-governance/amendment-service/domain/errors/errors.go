package errors

import "errors"

var (
	ErrInvalidAmendmentInput  = errors.New("invalid amendment input")
	ErrAmendmentNotFound      = errors.New("amendment not found")
	ErrIllegalTransition      = errors.New("illegal workflow transition")
	ErrPathInvalid            = errors.New("amendment path invalid")
	ErrIdempotencyKeyRequired = errors.New("idempotency key required")
	ErrIdempotencyConflict    = errors.New("idempotency key reused with different request")
)
