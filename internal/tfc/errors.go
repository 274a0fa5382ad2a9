package tfc

import (
	"fmt"
)

// Kind classifies request failures into a closed taxonomy.
// Every failed call produces exactly one Kind; callers branch on the kind
// rather than on transport-specific error types.
type Kind string

const (
	// KindAuthentication indicates a missing or rejected credential (401).
	KindAuthentication Kind = "authentication_error"

	// KindNotFound indicates the requested resource does not exist (404).
	KindNotFound Kind = "not_found"

	// KindValidation indicates the request was rejected by the API
	// (4xx other than 401/404).
	KindValidation Kind = "validation_error"

	// KindServer indicates a remote failure (5xx) or unexpected protocol
	// behavior such as a second redirect hop.
	KindServer Kind = "server_error"

	// KindNetwork indicates a transport-level failure: timeout, DNS
	// resolution, connection reset.
	KindNetwork Kind = "network_error"

	// KindDecode indicates a response that claimed to be JSON but failed
	// to parse.
	KindDecode Kind = "decode_error"
)

// Error is the structured failure produced by the transport. It is the only
// error type Client.Do returns, so callers can always recover the kind with
// errors.As.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// StatusCode is the HTTP status code if the failure came from a
	// response. Zero for network and decode failures that never produced
	// a usable response.
	StatusCode int

	// Message is a human-readable detail, safe to log and surface to
	// callers. Never contains the credential.
	Message string

	// Details carries the remote error body verbatim when the API
	// supplied one (JSON:API errors array or similar).
	Details any

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind returns true if the error is of the given kind.
func (e *Error) IsKind(k Kind) bool {
	return e.Kind == k
}

// classifyStatus maps an HTTP error status code to a Kind.
func classifyStatus(statusCode int) Kind {
	switch {
	case statusCode == 401:
		return KindAuthentication
	case statusCode == 404:
		return KindNotFound
	case statusCode >= 500:
		return KindServer
	default:
		return KindValidation
	}
}
