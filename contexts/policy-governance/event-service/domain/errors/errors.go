package errors

import "errors"

var (
	ErrInvalidEventInput      = errors.New("invalid event input")
	ErrInvalidAgendaItemInput = errors.New("invalid agenda item input")
	ErrEventNotFound          = errors.New("event not found")
	ErrEventAlreadyCancelled  = errors.New("event already cancelled")
	ErrAgendaItemNotFound     = errors.New("agenda item not found")
	ErrNoReassignmentTarget   = errors.New("no valid reassignment target")
	ErrAmendmentNotFound      = errors.New("amendment not found")
)
