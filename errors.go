package lanshare

import "errors"

var (
	// ErrNotFound is returned when a file id is not registered
	ErrNotFound = errors.New("not found")
	// ErrOpen is returned when a registered file cannot be opened for reading
	ErrOpen = errors.New("open failed")
	// ErrInternal is returned when an internal error occurs
	ErrInternal = errors.New("internal error")
	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized is returned when authentication fails
	ErrUnauthorized = errors.New("unauthorized")
)
