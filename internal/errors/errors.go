package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionInvalid     ErrorCode = "SESSION-001"
	ErrCodeSessionPersist     ErrorCode = "SESSION-002"
	ErrCodeSessionCorrupt     ErrorCode = "SESSION-003"
	ErrCodeSessionNoToken     ErrorCode = "SESSION-004"
	ErrCodeSessionTokenOpaque ErrorCode = "SESSION-005"

	// Role errors (ROLE-001 to ROLE-099)
	ErrCodeRoleUnknown ErrorCode = "ROLE-001"

	// API errors (API-001 to API-099)
	ErrCodeAPIRequest      ErrorCode = "API-001"
	ErrCodeAPIUnauthorized ErrorCode = "API-002"
	ErrCodeAPIStatus       ErrorCode = "API-003"
	ErrCodeAPIDecode       ErrorCode = "API-004"
	ErrCodeAPIEncode       ErrorCode = "API-005"

	// Storage errors (STORAGE-001 to STORAGE-099)
	ErrCodeStorageOpen   ErrorCode = "STORAGE-001"
	ErrCodeStorageSchema ErrorCode = "STORAGE-002"
	ErrCodeStorageRead   ErrorCode = "STORAGE-003"
	ErrCodeStorageWrite  ErrorCode = "STORAGE-004"

	// Toast errors (TOAST-001 to TOAST-099)
	ErrCodeToastInvalid ErrorCode = "TOAST-001"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigRead    ErrorCode = "CONFIG-001"
	ErrCodeConfigParse   ErrorCode = "CONFIG-002"
	ErrCodeConfigInvalid ErrorCode = "CONFIG-003"
)

// CourtdeskError represents an enhanced error with code and suggestions
type CourtdeskError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *CourtdeskError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *CourtdeskError) Unwrap() error {
	return e.Cause
}

// New creates a new CourtdeskError
func New(code ErrorCode, message string) *CourtdeskError {
	return &CourtdeskError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new CourtdeskError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *CourtdeskError {
	return &CourtdeskError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *CourtdeskError) WithSuggestion(suggestion string) *CourtdeskError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *CourtdeskError) WithSuggestions(suggestions ...string) *CourtdeskError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// HasCode reports whether err, or any error it wraps, carries the given code.
func HasCode(err error, code ErrorCode) bool {
	var cdErr *CourtdeskError
	for err != nil {
		if !errors.As(err, &cdErr) {
			return false
		}
		if cdErr.Code == code {
			return true
		}
		err = cdErr.Cause
	}
	return false
}

// CodeOf returns the code of the outermost CourtdeskError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var cdErr *CourtdeskError
	if errors.As(err, &cdErr) {
		return cdErr.Code, true
	}
	return "", false
}

// Common error constructors for frequently used errors

// NewRoleUnknownError creates an unknown role error
func NewRoleUnknownError(value string) *CourtdeskError {
	return New(ErrCodeRoleUnknown, fmt.Sprintf("unknown role: %q", value)).
		WithSuggestion("Use one of: public, advocate, court")
}

// NewSessionInvalidError creates an invalid session error
func NewSessionInvalidError(details string) *CourtdeskError {
	return New(ErrCodeSessionInvalid, fmt.Sprintf("invalid session: %s", details)).
		WithSuggestion("A session needs both a user with a valid role and a token")
}

// NewNotLoggedInError creates an error for commands that need a session
func NewNotLoggedInError() *CourtdeskError {
	return New(ErrCodeSessionNoToken, "not logged in").
		WithSuggestion("Run 'courtdesk login' to start a session")
}

// NewUnauthorizedError creates the error returned to callers after a 401
func NewUnauthorizedError(method, path string) *CourtdeskError {
	return New(ErrCodeAPIUnauthorized, fmt.Sprintf("unauthorized: %s %s", method, path)).
		WithSuggestion("The session was cleared; run 'courtdesk login' again")
}

// NewConfigInvalidError creates a configuration validation error
func NewConfigInvalidError(details string) *CourtdeskError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", details)).
		WithSuggestion("Run 'courtdesk config view' to inspect the effective configuration")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *CourtdeskError {
	return Wrap(ErrCodeConfigParse, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Check the file syntax and format").
		WithSuggestion(fmt.Sprintf("Ensure the file is valid %s", format))
}
