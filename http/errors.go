package http

import (
	"errors"
	"fmt"
)

// HTTPError indicates a non-success HTTP response.
type HTTPError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// URL is the request URL.
	URL string
	// Body is the response body, if it could be read.
	Body []byte
}

// Error returns a string representation of the HTTP error.
func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d for %s", e.StatusCode, e.URL)
}

// ErrNoResponse indicates no response was received from the server.
var ErrNoResponse = errors.New("no response received")
