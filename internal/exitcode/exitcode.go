// Package exitcode maps command errors to process exit codes.
package exitcode

import (
	"context"
	stderrors "errors"
	"net"
	"os"
	"strings"

	"github.com/felixgeelhaar/courtdesk/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	Success = 0

	// GeneralError covers everything without a more specific code.
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args).
	UsageError = 2

	// ConfigError indicates an unreadable or invalid configuration.
	ConfigError = 3

	// StorageError indicates the session storage could not be used.
	StorageError = 4

	// AuthError indicates a missing session or a token the backend rejected.
	AuthError = 5

	// NetworkError indicates the backend could not be reached.
	NetworkError = 6

	// Interrupted indicates SIGINT or SIGTERM (128 + 2).
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with the code DetermineExitCode picks for err.
func ExitWithError(err error) {
	Exit(DetermineExitCode(err))
}

var codeExits = map[errors.ErrorCode]int{
	errors.ErrCodeAPIUnauthorized:    AuthError,
	errors.ErrCodeSessionNoToken:     AuthError,
	errors.ErrCodeSessionInvalid:     AuthError,
	errors.ErrCodeAPIRequest:         NetworkError,
	errors.ErrCodeConfigRead:         ConfigError,
	errors.ErrCodeConfigParse:        ConfigError,
	errors.ErrCodeConfigInvalid:      ConfigError,
	errors.ErrCodeStorageOpen:        StorageError,
	errors.ErrCodeStorageSchema:      StorageError,
	errors.ErrCodeStorageRead:        StorageError,
	errors.ErrCodeStorageWrite:       StorageError,
	errors.ErrCodeSessionPersist:     StorageError,
	errors.ErrCodeRoleUnknown:        UsageError,
	errors.ErrCodeSessionTokenOpaque: GeneralError,
}

// DetermineExitCode inspects err's chain for a coded error, then for network
// failures, then falls back to matching cobra's usage messages.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	// The outermost mapped code wins.
	var cdErr *errors.CourtdeskError
	for e := err; e != nil; {
		if !stderrors.As(e, &cdErr) {
			break
		}
		if code, ok := codeExits[cdErr.Code]; ok {
			return code
		}
		e = cdErr.Cause
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) || stderrors.Is(err, context.DeadlineExceeded) {
		return NetworkError
	}

	msg := strings.ToLower(err.Error())
	for _, usage := range []string{"unknown command", "unknown flag", "unknown shorthand flag", "required flag", "invalid argument", "accepts ", "requires at least"} {
		if strings.Contains(msg, usage) {
			return UsageError
		}
	}
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case ConfigError:
		return "Configuration error"
	case StorageError:
		return "Session storage error"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
