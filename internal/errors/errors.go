package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCode represents an outreach error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrAuthFailed       ErrorCode = "AUTH_FAILED"       // 401
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrFileNotFound     ErrorCode = "FILE_NOT_FOUND"    // 404
	ErrConflict         ErrorCode = "CONFLICT"          // 409
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED" // 422
	ErrCancelled        ErrorCode = "CANCELLED"         // 499
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// OutreachError represents a structured error with code, status, and details.
type OutreachError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *OutreachError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *OutreachError {
	return &OutreachError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewAuthFailed creates a 401 error. The message comes from the auth provider
// and is shown to the user as-is.
func NewAuthFailed(msg string) *OutreachError {
	return &OutreachError{
		Code:    ErrAuthFailed,
		Status:  401,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when a contact cannot be found.
func NewNotFound(id string) *OutreachError {
	return &OutreachError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("contact not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewFileNotFound creates a 404 error for a missing import file.
func NewFileNotFound(path string) *OutreachError {
	return &OutreachError{
		Code:    ErrFileNotFound,
		Status:  404,
		Message: fmt.Sprintf("file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewConflict creates a 409 error for general conflicts.
func NewConflict(msg string) *OutreachError {
	return &OutreachError{
		Code:    ErrConflict,
		Status:  409,
		Message: msg,
	}
}

// NewValidation creates a 422 error carrying per-field messages.
func NewValidation(fields map[string]string) *OutreachError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	details := make(map[string]any, len(fields))
	for name, msg := range fields {
		details[name] = msg
	}

	return &OutreachError{
		Code:    ErrValidationFailed,
		Status:  422,
		Message: fmt.Sprintf("invalid fields: %s", strings.Join(names, ", ")),
		Details: map[string]any{"fields": details},
	}
}

// NewCancelled creates an error for an operation stopped by its context.
func NewCancelled(op string) *OutreachError {
	return &OutreachError{
		Code:    ErrCancelled,
		Status:  499,
		Message: fmt.Sprintf("%s cancelled", op),
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *OutreachError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &OutreachError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if err (or anything it wraps) is an OutreachError with the given code.
func Is(err error, code ErrorCode) bool {
	var oErr *OutreachError
	if stderrors.As(err, &oErr) {
		return oErr.Code == code
	}
	return false
}

// FieldErrors returns the per-field messages of a validation error, or nil.
func FieldErrors(err error) map[string]string {
	var oErr *OutreachError
	if !stderrors.As(err, &oErr) || oErr.Code != ErrValidationFailed {
		return nil
	}
	raw, ok := oErr.Details["fields"].(map[string]any)
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	return fields
}
