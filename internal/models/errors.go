package models

import "errors"

// Domain errors. Callers wrap them with detail and match with errors.Is.
var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidSplit      = errors.New("invalid split")
	ErrOverAllocated     = errors.New("explicit amounts exceed total")
	ErrNotFound          = errors.New("not found")
	ErrInconsistentSplit = errors.New("edit invalidates existing shares; resubmit participants")
	ErrAlreadyCompleted  = errors.New("already completed")
	ErrUnauthorized      = errors.New("not a participant of this group")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("conflict")
)
