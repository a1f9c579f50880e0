package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrClient is the root of every error kind produced by this package.
var ErrClient = errors.New("httpsreq")

var (
	// ErrInvalidURL is returned for malformed, non-https or hostname-less
	// URLs. It is always detected before any network activity.
	ErrInvalidURL = fmt.Errorf("%w: invalid url", ErrClient)
	// ErrTimeout is returned when the transport operation outlives the
	// configured timeout.
	ErrTimeout = fmt.Errorf("%w: timeout", ErrClient)
	// ErrHTTP is wrapped by [HTTPError].
	ErrHTTP = fmt.Errorf("%w: http error", ErrClient)
	// ErrJSON is returned when a response body is not valid JSON.
	ErrJSON = fmt.Errorf("%w: invalid json", ErrClient)
	// ErrInvalidRequest is returned when options, headers or the body
	// cannot form a valid request.
	ErrInvalidRequest = fmt.Errorf("%w: invalid request", ErrClient)
)

// Error wraps one of the sentinel kinds with a detail message and,
// optionally, the underlying cause.
type Error struct {
	Err    error
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v: %s: %v", e.Err, e.Detail, e.Cause)
	}

	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

// HTTPError is returned by [Response.RaiseForStatus] when the status
// code falls outside [200, 400).
type HTTPError struct {
	StatusCode int
	Response   *Response
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%v: %d %s", ErrHTTP, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *HTTPError) Unwrap() error {
	return ErrHTTP
}

func invalidURL(detail string, cause error) error {
	return &Error{Err: ErrInvalidURL, Detail: detail, Cause: cause}
}

func invalidRequest(detail string, cause error) error {
	return &Error{Err: ErrInvalidRequest, Detail: detail, Cause: cause}
}
