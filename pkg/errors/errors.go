// Package errors provides structured error types for Swimlane.
//
// Errors carry a machine-readable [Code] so the interaction engine, the
// stores and the HTTP host can agree on a small taxonomy:
//   - MISSING_REFERENCE: a model or scene lookup failed; the operation aborts
//     without partial mutation
//   - INVALID_OPERATION: the requested mutation is rejected before it happens
//     (self-loop, duplicate edge, unknown lane)
//   - CANCELLED: a gesture ended without meeting its commit conditions; this is
//     a normal discard, not a failure
//   - NOT_FOUND_* / INVALID_* / STORAGE / INTERNAL: host-side failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOperation, "self-loop on %s", id)
//	if errors.Is(err, errors.ErrCodeInvalidOperation) {
//	    // show negative feedback
//	}
//
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save diagram %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Interaction errors
	ErrCodeMissingReference Code = "MISSING_REFERENCE"
	ErrCodeInvalidOperation Code = "INVALID_OPERATION"
	ErrCodeCancelled        Code = "CANCELLED"
	ErrCodeInvalidMode      Code = "INVALID_MODE"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidID    Code = "INVALID_ID"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodeDiagramNotFound Code = "DIAGRAM_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"
	ErrCodeSessionExpired  Code = "SESSION_EXPIRED"

	// Internal errors
	ErrCodeStorage     Code = "STORAGE"
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeDiagramNotFound, ErrCodeSessionNotFound, ErrCodeSessionExpired:
		return true
	}
	return false
}

// IsInvalid reports whether err was caused by bad caller input.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidID, ErrCodeInvalidMode, ErrCodeInvalidOperation:
		return true
	}
	return false
}
