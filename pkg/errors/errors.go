// Package errors provides structured error types for clustersketch.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI commands and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: input validation failures
//   - NOT_FOUND / REFERENCE_NOT_FOUND: missing resources
//   - EXTERNAL_TOOL: failures of the hmmscan subprocess
//   - RENDER_FAILED: output document failures (fatal for a batch)
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidHit, "hit %s out of range", id)
//	if errors.Is(err, errors.ErrCodeInvalidHit) {
//	    // Handle annotation input error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeExternalTool, origErr, "hmmscan on %s", path)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidModel  Code = "INVALID_MODEL"  // malformed protein/cluster on construction
	ErrCodeInvalidHit    Code = "INVALID_HIT"    // domain hit coordinates out of range
	ErrCodeInvalidConfig Code = "INVALID_CONFIG" // bad styling configuration
	ErrCodeInvalidInput  Code = "INVALID_INPUT"  // malformed input file or flag value

	// Resource not found errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeReferenceNotFound Code = "REFERENCE_NOT_FOUND" // alignment reference protein absent

	// External process errors
	ErrCodeExternalTool Code = "EXTERNAL_TOOL"

	// Output errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"

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

// IsFatal reports whether err should abort the whole batch rather than a
// single cluster. Render errors, internal errors and context cancellation
// are fatal; per-cluster errors (validation, annotation input, missing
// references, tool failures) degrade to warnings so a batch of many
// clusters keeps going.
func IsFatal(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch GetCode(err) {
	case ErrCodeRenderFailed, ErrCodeInternal:
		return true
	}
	return false
}
