package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized means the bearer token was rejected; the stored
	// credential should be discarded and the user asked to log in again.
	ErrUnauthorized = errors.New("api: unauthorized")

	// ErrNotImplemented marks the student lessons endpoint answering
	// 404/405. The backend simply has not grown that route yet, so this is
	// an informational state for the view, not a failure.
	ErrNotImplemented = errors.New("api: endpoint not implemented")
)

// StatusError is any other non-success response. Detail carries the
// backend's message when one could be extracted from the body.
type StatusError struct {
	Status int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: request failed with status %d", e.Status)
}

// Message returns the text to surface to the user.
func (e *StatusError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed (%d)", e.Status)
}
