package quip

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoContent means a thread response carried no extractable HTML body.
var ErrNoContent = errors.New("quip: thread has no html content")

// TransientError is a retryable HTTP failure (429/502/503/504).  The client
// retries these internally; if one escapes, all attempts were exhausted.
type TransientError struct {
	StatusCode int
	URL        string
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("quip: transient HTTP %d fetching %s (retries exhausted)", e.StatusCode, e.URL)
}

// PermanentError is a non-retryable HTTP failure, raised immediately.
type PermanentError struct {
	StatusCode int
	URL        string
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("quip: HTTP %d fetching %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err is a permanent 404.
func IsNotFound(err error) bool {
	var perm *PermanentError
	return errors.As(err, &perm) && perm.StatusCode == http.StatusNotFound
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
