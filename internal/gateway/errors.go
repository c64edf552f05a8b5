package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures that happen before a response arrives.
	ErrTransport = errors.New("transport failure")

	// ErrUnauthorized matches any APIError with status 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden matches any APIError with status 403.
	ErrForbidden = errors.New("forbidden")

	ErrDecode = errors.New("failed to decode response")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	}
	return false
}

// StatusMessage is the message used when the backend gives none.
func StatusMessage(status int) string {
	return fmt.Sprintf("Request failed with status %d", status)
}
