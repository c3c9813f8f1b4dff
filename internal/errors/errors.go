package errors

import (
	"errors"
	"fmt"
)

// Common error types for the authorization-callback relay
var (
	// Callback errors
	ErrInvalidState      = errors.New("invalid state")
	ErrProviderError     = errors.New("provider returned an error")
	ErrMissingParameters = errors.New("missing parameters")

	// Retrieval errors
	ErrInvalidAccessKey = errors.New("invalid access key")

	// Client registration errors
	ErrClientIDAlreadySet = errors.New("client id already set")

	// Routing errors
	ErrInvalidRoute = errors.New("invalid route")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")

	// Lifecycle errors
	ErrNotRunning = errors.New("listener not running")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
