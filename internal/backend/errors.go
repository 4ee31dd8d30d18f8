package backend

import "errors"

// ErrNotIndexed is returned when the backend accepted an upload but did not
// confirm that the document was indexed
var ErrNotIndexed = errors.New("document was not indexed")

// APIError is a non-2xx backend response. Message is already fit for display.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// TransportError wraps failures to reach the backend at all
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "Failed to reach backend: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
