package errors

import (
	"errors"
	"fmt"
)

// Errors shared by the portal server and its session registry
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Request errors
	ErrMissingField = errors.New("missing required field")

	// Configuration errors
	ErrUnknownTokenStore = errors.New("unknown token store")
	ErrInvalidRedisURL   = errors.New("invalid redis url")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return errors.As(err, target)
}
