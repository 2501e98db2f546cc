package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUserCancelled is returned when the credential prompt is dismissed.
	ErrUserCancelled = errors.New("user cancelled login")

	// ErrIncompleteCredentials is returned when a prompt yields an empty field.
	ErrIncompleteCredentials = errors.New("username, password and subscriber ID are all required")
)

// AuthError is a login rejection reported by the backend.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// InvalidSubscriberError means the usage endpoint does not know the subscriber ID.
type InvalidSubscriberError struct {
	SubscriberID string
	Message      string
}

func (e *InvalidSubscriberError) Error() string {
	return fmt.Sprintf("invalid subscriber ID %q: %s", e.SubscriberID, e.Message)
}

// BackendError is any other failure reported by (or read from) the backend.
type BackendError struct {
	Status  int // HTTP status, 0 when the body carried the error
	Message string
}

func (e *BackendError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return "backend error: " + e.Message
}

// RendererUnavailableError means a renderer could be neither fetched nor
// loaded from its cache slot.
type RendererUnavailableError struct {
	Name string
	Err  error
}

func (e *RendererUnavailableError) Error() string {
	return fmt.Sprintf("renderer %q unavailable: %v", e.Name, e.Err)
}

func (e *RendererUnavailableError) Unwrap() error { return e.Err }

// NetworkError wraps a transport-level failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ClearsCredentials reports whether err is one of the backend rejections that
// wipe stored credentials.
func ClearsCredentials(err error) bool {
	var (
		authErr    *AuthError
		subErr     *InvalidSubscriberError
		backendErr *BackendError
	)
	switch {
	case errors.As(err, &authErr), errors.As(err, &subErr):
		return true
	case errors.As(err, &backendErr):
		return backendErr.Status == 0
	}
	return false
}
