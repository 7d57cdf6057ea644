package platform

import (
	"fmt"
	"testing"
)

func TestIsDuplicateCheckIn(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrap: %w", &APIError{StatusCode: 400, Body: `{"detail":"Today's streak already recorded"}`})
	if !isDuplicateCheckIn(err) {
		t.Fatalf("expected true for duplicate check-in error")
	}
	if isDuplicateCheckIn(&APIError{StatusCode: 500, Body: "already recorded"}) {
		t.Fatalf("expected false for non-400 status")
	}
}

func TestNotFoundError_IsNotFound(t *testing.T) {
	t.Parallel()

	base := &NotFoundError{Path: "/client/tests/tree/"}
	wrapped := fmt.Errorf("wrap: %w", base)

	if !IsNotFound(base) {
		t.Fatalf("expected IsNotFound to be true")
	}
	if !IsNotFound(wrapped) {
		t.Fatalf("expected IsNotFound to be true for wrapped error")
	}
	if IsAuthError(wrapped) {
		t.Fatalf("not-found must not be an auth error")
	}
}

func TestAuthError_Message(t *testing.T) {
	t.Parallel()

	if (&AuthError{}).Error() != "authentication failed" {
		t.Fatalf("unexpected default message")
	}
	if !IsAuthError(fmt.Errorf("x: %w", &AuthError{Message: "token rejected"})) {
		t.Fatalf("expected wrapped auth error to match")
	}
}
