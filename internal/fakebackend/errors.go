package fakebackend

import "errors"

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidToken    = errors.New("invalid token")
	ErrAccountInactive = errors.New("account inactive")
)
