package auth

import (
	"fmt"
	"net/mail"
	"strings"
)

const minPasswordLength = 6

// Validator checks form input before it is sent to the backend, so obviously
// bad input never costs a round trip.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateLogin checks that both credentials are present and the email parses.
func (v *Validator) ValidateLogin(req LoginRequest) error {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	return v.ValidateEmail(req.Email)
}

func (v *Validator) ValidateRegistration(req RegisterRequest) error {
	if err := v.ValidateEmail(req.Email); err != nil {
		return err
	}
	if strings.TrimSpace(req.FirstName) == "" && strings.TrimSpace(req.LastName) == "" {
		return fmt.Errorf("%w: a name is required", ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

func (v *Validator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: %q is not a valid email address", ErrInvalidInput, email)
	}
	return nil
}
