package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// APIStatusError represents a non-2xx response from an external metadata or
// reasoning API.
type APIStatusError struct {
	Source     string
	StatusCode int
	Body       string // Truncated response body if available
}

func (e *APIStatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned HTTP %d: %s", e.Source, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s returned HTTP %d", e.Source, e.StatusCode)
}

const maxBodyInError = 200

// NewAPIStatusError creates a new status error, truncating long bodies.
func NewAPIStatusError(source string, statusCode int, body string) *APIStatusError {
	if len(body) > maxBodyInError {
		body = body[:maxBodyInError] + "..."
	}
	return &APIStatusError{
		Source:     source,
		StatusCode: statusCode,
		Body:       body,
	}
}

// IsAPIStatusError checks if error is an APIStatusError
func IsAPIStatusError(err error) bool {
	var statusErr *APIStatusError
	return stdErrors.As(err, &statusErr)
}

// IsAuthError reports whether err is a 401 or 403 APIStatusError.
func IsAuthError(err error) bool {
	var statusErr *APIStatusError
	if !stdErrors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode == http.StatusUnauthorized || statusErr.StatusCode == http.StatusForbidden
}
