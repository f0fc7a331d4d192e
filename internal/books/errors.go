package books

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport wraps network-level failures
	ErrTransport = errors.New("book lookup transport failure")
	// ErrMalformedPayload wraps undecodable or unexpected response bodies
	ErrMalformedPayload = errors.New("malformed book lookup payload")
	// ErrEmptyQuery is returned without contacting the service
	ErrEmptyQuery = errors.New("empty search query")
)

// StatusError is returned for non-2xx responses
type StatusError struct {
	Code int
	// Body holds the start of the response body, for logs
	Body string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("book lookup returned status %d: %s", e.Code, e.Body)
	}
	return fmt.Sprintf("book lookup returned status %d", e.Code)
}

// StatusCode returns the HTTP status from an error if it's a StatusError
func StatusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, true
	}
	return 0, false
}

// Kind classifies an error for logs and metrics
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrEmptyQuery):
		return "empty_query"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	}
	if _, ok := StatusCode(err); ok {
		return "status"
	}
	return "other"
}
