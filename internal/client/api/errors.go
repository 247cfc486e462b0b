package api

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError carries the HTTP status and the backend's detail message for a
// non-2xx response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

// Unwrap maps a 401 response onto ErrUnauthorized so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}
