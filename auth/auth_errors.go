package auth

import "errors"

var (
	// ErrInvalidInput wraps every Validator failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoRefreshToken is returned by RefreshToken when nothing is stored.
	ErrNoRefreshToken = errors.New("no refresh token available")
)
