package crawler

import (
	"errors"
	"fmt"
)

// TransportError represents a failed HTTP fetch: network-level failures
// (DNS, connection refused, timeout) and non-2xx responses alike.
// It is always isolated to the URL that caused it; the orchestrator
// never aborts a run because of one.
//
// Design decision: We use a single error type for both network and HTTP
// status failures because every caller treats them identically: the
// fetch is final for that URL, with no retries and no branching on the
// failure class.
type TransportError struct {
	// URL is the URL whose fetch failed.
	URL string

	// StatusCode is the HTTP status code for non-2xx responses.
	// Zero when the failure happened before a response arrived.
	StatusCode int

	// Err is the underlying cause, nil for plain status failures.
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
