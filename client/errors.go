package client

import (
	"fmt"
	"net/http"
)

// maxErrorBodyBytes caps how much of a failed response body is kept.
const maxErrorBodyBytes = 4096

// NetworkError is returned when no response was received: dial failures,
// timeouts, cancelled contexts.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("%s %s: unexpected status %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Body)
}

// IsNotFound reports whether the server answered 404.
func (e *HTTPError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// DecodeError is returned when a 2xx body cannot be decoded into the target.
type DecodeError struct {
	Method string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s: decode response: %v", e.Method, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
