package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingToken       = errors.New("no token")
	ErrInvalidToken       = errors.New("invalid token")

	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")

	ErrUpstream    = errors.New("upstream provider failure")
	ErrPersistence = errors.New("persistence failure")
	ErrDuplicateID = errors.New("duplicate history entry id")
)

// ValidationError reports a missing or malformed request field group.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}
