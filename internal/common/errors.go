// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Interaction errors. Every failure of a user action wraps exactly one of these.
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("entity already exists")
	ErrRequest    = errors.New("request failed")

	// ErrSuperseded marks a response that belongs to a query that was replaced
	// by a newer one before it resolved. Callers drop it silently.
	ErrSuperseded = errors.New("superseded by a newer request")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError is a client-side failure tied to a single form field.
// No network call is ever made when one is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is reports ErrValidation so callers can use errors.Is.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports that the server already holds a record with the
// same identity (for example a duplicate name).
type ConflictError struct {
	Resource string
	Message  string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// Is reports ErrConflict so callers can use errors.Is.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// RequestError is any other non-2xx response or transport failure.
type RequestError struct {
	Err     error
	Method  string
	Path    string
	Message string
	Status  int
}

func (e *RequestError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Is reports ErrRequest so callers can use errors.Is.
func (e *RequestError) Is(target error) bool {
	return target == ErrRequest
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
