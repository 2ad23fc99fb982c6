package client

import (
	"errors"
	"fmt"
)

// Sentinel outcomes surfaced by the core components. Everything here is
// recoverable: callers surface a message and stay in a retryable state.
var (
	// ErrSessionExpired is returned after the transport saw the server's
	// TOKEN_EXPIRED code. Local credentials are already cleared and the
	// registered expiry handler has fired by the time a caller sees this.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoMoreCandidates reports cursor exhaustion on the candidate feed.
	ErrNoMoreCandidates = errors.New("no more candidates")

	// ErrEmptyMessage rejects a send with neither text nor puzzle payload,
	// before any network call.
	ErrEmptyMessage = errors.New("message has no text or puzzle")

	// ErrMessageQuotaReached blocks a matchmaker send into a
	// pending_approval conversation once the quota is spent.
	ErrMessageQuotaReached = errors.New("message quota reached, approval required")

	// ErrEmptyNote rejects a send-note decision without a note.
	ErrEmptyNote = errors.New("note must not be empty")

	// ErrNotLinkedDater rejects selecting a dater outside the linked set.
	ErrNotLinkedDater = errors.New("dater is not in the linked set")

	// ErrNotMatchmaker guards matchmaker-only operations.
	ErrNotMatchmaker = errors.New("operation requires a matchmaker")

	// ErrMalformedResponse wraps a body the server returned that could not
	// be decoded. Distinct from an HTTP-level failure.
	ErrMalformedResponse = errors.New("malformed server response")
)

// APIError is a non-2xx response the server explained. It is reported to
// the caller rather than retried.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.StatusCode)
}
