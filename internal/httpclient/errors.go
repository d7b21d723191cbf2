package httpclient

import (
	"errors"
	"fmt"
)

// StatusError is returned for any non-2xx response. Message carries the
// backend's own error text when it sent one.
type StatusError struct {
	Message    string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return e.Message
}

// NetworkError wraps failures where no HTTP response was obtained: DNS,
// refused connections, timeouts, or an open circuit breaker.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
