// Package apperror defines the error taxonomy shared by the snippet engine.
// Callers match categories with errors.Is against the sentinel values.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrInvalidFormat        = errors.New("invalid format")
	ErrClipboardUnavailable = errors.New("clipboard unavailable")
)

// AppError carries a category sentinel plus a human-readable message.
type AppError struct {
	Err     error  // category sentinel
	Message string // shown to the user
	Field   string // optional: field causing the error
	Cause   error  // optional: underlying failure
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes both the category and the underlying cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// InvalidFormat reports input that could not be parsed into the expected shape.
func InvalidFormat(message string, cause error) *AppError {
	return &AppError{
		Err:     ErrInvalidFormat,
		Message: message,
		Cause:   cause,
	}
}

// ClipboardUnavailable wraps a failed or denied clipboard write.
func ClipboardUnavailable(cause error) *AppError {
	return &AppError{
		Err:     ErrClipboardUnavailable,
		Message: "clipboard unavailable",
		Cause:   cause,
	}
}

// FieldOf returns the offending field of a validation error, or "".
func FieldOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
