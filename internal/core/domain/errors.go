package domain

import (
	"errors"
	"strings"
)

var (
	ErrDuplicateUser          = errors.New("user already exists")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidToken           = errors.New("invalid token")
	ErrMalformedToken         = errors.New("malformed token")
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAccessDenied           = errors.New("access denied")
	ErrTooManyAttempts        = errors.New("too many failed attempts")
	ErrConfiguration          = errors.New("invalid configuration")
)

// ValidationError reports one or more problems with request input.
type ValidationError struct {
	Messages []string
}

// NewValidationError builds a ValidationError from the given messages.
func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}
