package piholesdk

import (
	"errors"
	"fmt"
)

// ErrAuthenticationRequired is returned by authenticated calls issued while the
// session is anonymous. No request is sent in that case.
var ErrAuthenticationRequired = errors.New("piholesdk: authentication required")

// APIError is the structured error payload Pi-hole returns in place of a
// success body.
type APIError struct {
	// StatusCode is the HTTP status of the response carrying the error.
	StatusCode int

	Key     string
	Message string

	// Hint is empty when the server sent none.
	Hint string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := fmt.Sprintf("pihole api error (status %d, key %s): %s", e.StatusCode, e.Key, e.Message)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// TransportError wraps a failure to exchange the request with the server.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("pihole transport error: %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError is returned when a response body matched neither the
// expected success shape nor the error shape.
type MalformedResponseError struct {
	StatusCode int

	// SuccessErr is why the body did not decode as the success shape.
	SuccessErr error

	// ErrorErr is why the body did not decode as the error shape.
	ErrorErr error
}

// Error implements the error interface.
func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf(
		"pihole malformed response (status %d): success shape: %v; error shape: %v",
		e.StatusCode, e.SuccessErr, e.ErrorErr,
	)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{e.SuccessErr, e.ErrorErr}
}

// IsNotFound reports whether err is an APIError for a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == 404 || apiErr.Key == "not_found"
}
