// Package errors provides structured error types for impose.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad folds, bad geometry, bad files)
//   - NOT_FOUND: Missing presets or nets
//   - Fold plan outcomes: AXIS_MISMATCH, NOT_FULLY_FOLDED
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFold, "fold index %d out of range", idx)
//	if errors.Is(err, errors.ErrCodeInvalidFold) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidFold     Code = "INVALID_FOLD"
	ErrCodeInvalidGeometry Code = "INVALID_GEOMETRY"
	ErrCodeInvalidNet      Code = "INVALID_NET"

	// Fold plan outcomes
	ErrCodeAxisMismatch   Code = "AXIS_MISMATCH"
	ErrCodeNotFullyFolded Code = "NOT_FULLY_FOLDED"

	// Layout errors
	ErrCodeOutOfRange      Code = "OUT_OF_RANGE"
	ErrCodeNetDisconnected Code = "NET_DISCONNECTED"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Backend errors
	ErrCodeTimeout Code = "TIMEOUT"
	ErrCodeStorage Code = "STORAGE_ERROR"

	// Internal errors
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

// GetCodeOr returns the error code of err, or fallback when it has none.
func GetCodeOr(err error, fallback Code) Code {
	if c := GetCode(err); c != "" {
		return c
	}
	return fallback
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

// IsInvalid reports whether err carries a code that describes bad caller input
// rather than a failure of the system.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidFold,
		ErrCodeInvalidGeometry, ErrCodeInvalidNet,
		ErrCodeAxisMismatch, ErrCodeNotFullyFolded, ErrCodeOutOfRange,
		ErrCodeNetDisconnected:
		return true
	}
	return false
}
