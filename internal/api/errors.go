package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks 401/403 responses. The caller reacts by clearing
// the stored session and sending the user back to the login view.
var ErrUnauthorized = errors.New("unauthorized")

// Error is a failure reported by the backend: any non-2xx response. Message
// carries the server-supplied text when the body had one, otherwise a
// generic fallback.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// UserMessage extracts a one-line message suitable for display. Transport
// failures and decode errors collapse to the generic fallback.
func UserMessage(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "The request could not be completed. Please try again."
}
