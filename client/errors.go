package client

import (
	"errors"
	"net/http"
	"strconv"
)

var (
	ErrConfigRequired   = errors.New("config is required")
	ErrEndpointRequired = errors.New("endpoint is required")
	ErrEmptyID          = errors.New("file id is required")
)

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return "server error: " + strconv.Itoa(e.StatusCode) + " - " + e.Body
}

// Is matches any *APIError with the same StatusCode.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.StatusCode == e.StatusCode
}

var (
	// ErrNotFound is returned for 404 responses, including downloads of files
	// that are no longer readable.
	ErrNotFound = &APIError{StatusCode: http.StatusNotFound}

	// ErrUnauthorized is returned when credentials are missing or wrong.
	ErrUnauthorized = &APIError{StatusCode: http.StatusUnauthorized}
)
