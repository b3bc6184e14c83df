package service

import "fmt"

// ValidationError reports a missing or malformed input field
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// AuthenticationError reports bad credentials or a bad, expired or superseded token.
// Its message is safe to show to clients and never says which check failed.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

// ConflictError reports a write that collides with existing data
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports that the addressed resource does not exist
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Resource) }

// ForbiddenError reports an authenticated caller acting outside its rights
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string { return e.Message }

var (
	ErrInvalidCredentials  = &AuthenticationError{Message: "invalid credentials"}
	ErrInvalidRefreshToken = &AuthenticationError{Message: "invalid refresh token"}
)

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
