package tableapi

import (
	"errors"
	"fmt"
	"net/http"
)

// TransportError means the request never produced an HTTP response (network failure or timeout).
// It is the only class that is retried.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("table api %s %s: transport: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-success HTTP status. Message comes from the {"error": "..."} body when present.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("table api %s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("table api %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// DecodeError is a success status whose body had an unexpected shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("table api %s: malformed response: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the table API.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// IsTransport reports whether err is a network failure or timeout.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
