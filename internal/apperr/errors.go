// Package apperr holds the sentinel errors shared across packages.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnavailable   = errors.New("unavailable")

	// ErrIndexOutOfRange is returned when a task index does not name a
	// checklist line of the buffer.
	ErrIndexOutOfRange = errors.New("task index out of range")
)
