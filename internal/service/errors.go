package service

import (
	"errors"
	"fmt"

	"github.com/dlsms/dlsms-backend/internal/model"
)

// Workflow errors. The HTTP boundary maps each to a status code.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAuthFailed         = errors.New("authentication failed")
	ErrNotVerified        = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidRole        = errors.New("invalid role")
	ErrNotificationFailed = errors.New("failed to send verification email")
	ErrRateLimited        = errors.New("too many requests")

	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrClassroomCodeTaken = errors.New("classroom code already in use")
	ErrFileTooLarge       = errors.New("file too large")
)

// ErrEmailNotRegistered is an authentication failure caused by an unknown
// email. It is distinguished only to produce a "not found" message.
var ErrEmailNotRegistered = fmt.Errorf("%w: no account with this email", ErrAuthFailed)

// DuplicateEmailError reports which role already holds an email.
// Existing is empty when the store rejected a concurrent insert.
type DuplicateEmailError struct {
	Existing model.Role
}

func (e *DuplicateEmailError) Error() string {
	if e.Existing == "" {
		return "an account with this email already exists"
	}
	return fmt.Sprintf("a %s with this email already exists", e.Existing)
}

func (e *DuplicateEmailError) Is(target error) bool {
	return target == ErrDuplicateEmail
}

// ValidationError carries field-level validation failures.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}
