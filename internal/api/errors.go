package api

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
)

// Error is a non-2xx backend response.
type Error struct {
	StatusCode int
	Code       errors.ErrorCode
	Message    string
	Method     string
	Path       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// AsError extracts the backend error from err's chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// IsForbidden reports whether err is a 403 from the backend.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}
