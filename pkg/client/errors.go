package client

import (
	"errors"
	"fmt"
)

// HTTPError is a non-2xx answer from the tarot server. Message holds the
// server's "error" field when it sent one, otherwise the raw body.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("tarot server status %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err wraps an *HTTPError with status code.
func IsStatus(err error, code int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == code
}
