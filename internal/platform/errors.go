package platform

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError indicates a missing or rejected API token.
// Callers use it to print a login hint instead of a generic failure.
type AuthError struct {
	Message    string
	StatusCode int
}

func (e *AuthError) Error() string {
	if e == nil || e.Message == "" {
		return "authentication failed"
	}
	return e.Message
}

func IsAuthError(err error) bool {
	var e *AuthError
	return errors.As(err, &e)
}

// NotFoundError indicates that the requested platform resource does not exist.
type NotFoundError struct {
	Path  string
	cause error
}

func (e *NotFoundError) Error() string {
	if e == nil || e.Path == "" {
		return "resource not found"
	}
	return fmt.Sprintf("resource %q was not found", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.cause }

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// APIError is any other non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	msg := strings.TrimSpace(e.Body)
	if msg == "" {
		return fmt.Sprintf("platform API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("platform API error (status %d): %s", e.StatusCode, msg)
}

// isDuplicateCheckIn matches the backend's validation message for a second
// check-in on the same day.
// Observed: {"detail": "Today's streak already recorded"}
func isDuplicateCheckIn(err error) bool {
	var e *APIError
	if !errors.As(err, &e) || e.StatusCode != 400 {
		return false
	}
	return strings.Contains(e.Body, "already recorded")
}
