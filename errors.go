package jsonpoll

import "fmt"

// FetchErrorKind classifies what went wrong during a single fetch attempt.
//
// The kinds exist for logging and metrics; callers of [Poller.FetchOnce]
// see every kind as the same opaque *[FetchError] category.
type FetchErrorKind string

const (
	// FetchErrorTransport means the request could not be sent or no
	// response was received: DNS failure, connection refused, timeout
	// exceeded, TLS failure, or a truncated body read.
	FetchErrorTransport FetchErrorKind = "transport"

	// FetchErrorStatus means a response was received but its status code
	// is outside the 2xx range. The response body is discarded.
	FetchErrorStatus FetchErrorKind = "http_status"

	// FetchErrorDecode means the response body could not be parsed as
	// JSON, or its structure does not match the poller's payload type.
	FetchErrorDecode FetchErrorKind = "decode"
)

// String returns the string representation of the kind.
// This implements the fmt.Stringer interface.
func (k FetchErrorKind) String() string {
	return string(k)
}

// FetchError is the single failure category returned by [Poller.FetchOnce].
//
// Transport, HTTP-status, and decode failures are all surfaced identically
// to the caller; use [errors.As] to retrieve the FetchError and inspect
// Kind or StatusCode when the distinction matters.
type FetchError struct {
	// Kind classifies the failure.
	Kind FetchErrorKind

	// URL is the target URL of the failed fetch.
	URL string

	// StatusCode is the HTTP status code, if a response was received.
	// Zero when the request failed before a response arrived.
	StatusCode int

	// Err is the underlying cause. nil for pure status failures, where
	// StatusCode carries all available information.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Kind == FetchErrorStatus {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause for use with [errors.Is] and
// [errors.As]. Returns nil for status failures.
func (e *FetchError) Unwrap() error {
	return e.Err
}
