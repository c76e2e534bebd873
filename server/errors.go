package server

import "errors"

var (
	// ErrBind is returned when the listening socket cannot be created or bound
	ErrBind = errors.New("bind failed")
	// ErrMalformedRequest is returned when a request head cannot be read or parsed.
	// The connection is dropped without a response.
	ErrMalformedRequest = errors.New("malformed request")
)
