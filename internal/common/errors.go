package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")
	ErrDatabase     = errors.New("database error")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError reports a missing or malformed request field. The message
// is user-facing and must name what was missing or invalid.
func NewValidationError(message string) error {
	return &AppError{Code: "VALIDATION", Message: message, Cause: ErrValidation}
}

func NewValidationErrorf(format string, args ...any) error {
	return NewValidationError(fmt.Sprintf(format, args...))
}

// NewNotFoundError reports a natural-key lookup that matched no document.
func NewNotFoundError(message string) error {
	return &AppError{Code: "NOT_FOUND", Message: message, Cause: ErrNotFound}
}

func NewNotFoundErrorf(format string, args ...any) error {
	return NewNotFoundError(fmt.Sprintf(format, args...))
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UserMessage returns the human-readable message for request-scoped errors,
// falling back to the full error string for anything unexpected.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
