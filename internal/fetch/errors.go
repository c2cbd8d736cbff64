package fetch

import (
	"errors"
	"fmt"
)

// Fetch errors are split into three kinds so callers can react
// programmatically:
//   - input errors (bad URL) are the user's fault and never retried
//   - network errors (DNS, connect, timeout) are transient and retried
//   - status errors carry the HTTP status and are retried only for 5xx
var (
	// ErrInvalidURL is returned when the target is not a valid http(s) URL.
	ErrInvalidURL = errors.New("invalid URL: must be an absolute http or https URL")

	// ErrBodyTooLarge is returned when the response body exceeds the
	// configured size limit.
	ErrBodyTooLarge = errors.New("response body exceeds size limit")

	// ErrEmptyDocument is returned when the response body contains no
	// parseable HTML.
	ErrEmptyDocument = errors.New("response contained no parseable HTML")
)

// StatusError indicates the server answered with a non-success HTTP status.
type StatusError struct {
	// Code is the HTTP status code.
	Code int
}

// Error returns a user-facing message for the status code. The common
// grading failure modes get specific wording because "403" alone does not
// tell a site owner what to fix.
func (e *StatusError) Error() string {
	switch {
	case e.Code == 403:
		return "access forbidden (status 403): the site may be blocking automated requests"
	case e.Code == 404:
		return "page not found (status 404): check the URL"
	case e.Code == 429:
		return "rate limited (status 429): try again later"
	case e.Code >= 500:
		return fmt.Sprintf("server error (status %d): the site failed to serve the page", e.Code)
	default:
		return fmt.Sprintf("unexpected HTTP status %d", e.Code)
	}
}

// Transient reports whether a retry could plausibly succeed.
// Client errors are deterministic; only server errors are worth retrying.
func (e *StatusError) Transient() bool {
	return e.Code >= 500 || e.Code == 429
}

// NetworkError wraps a transport-level failure (DNS, connect, timeout).
type NetworkError struct {
	// Err is the underlying transport error.
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the error is worth retrying.
func IsTransient(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Transient()
	}
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
