// Package validator holds the input shape rules shared by signup, signin
// and the task routes. The predicates are pure: they inspect the value and
// return a sentinel error, nothing else.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidDescription = errors.New("invalid description")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Username reports whether s is an acceptable username (3-30 runes).
func Username(s string) error {
	if err := validate.Var(s, "min=3,max=30"); err != nil {
		return ErrInvalidUsername
	}
	return nil
}

// Password reports whether s is an acceptable password (6-100 runes).
func Password(s string) error {
	if err := validate.Var(s, "min=6,max=100"); err != nil {
		return ErrInvalidPassword
	}
	return nil
}

// Description reports whether s is an acceptable task description
// (1-500 runes).
func Description(s string) error {
	if err := validate.Var(s, "min=1,max=500"); err != nil {
		return ErrInvalidDescription
	}
	return nil
}
