// Package errors provides structured error types for the opinionmap application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the pipeline API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes map onto the tool's failure taxonomy:
//   - Input-shape errors (MISSING_FIELD, SHAPE_MISMATCH, ...): the document
//     cannot be turned into a vote matrix
//   - Geometry errors (DEGENERATE_CLUSTER): a cluster's points admit no
//     convex hull
//   - Contract errors (ANALYZER_SHAPE): the analyzer broke its output shape
//   - I/O errors (FILE_NOT_FOUND, WRITE_FAILED): the filesystem said no
//
// # Usage
//
//	err := errors.New(errors.ErrCodeShapeMismatch, "participant %q has %d votes", id, n)
//	if errors.Is(err, errors.ErrCodeShapeMismatch) {
//	    // Handle malformed input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeWriteFailed, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input-shape errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeMissingField      Code = "MISSING_FIELD"
	ErrCodeShapeMismatch     Code = "SHAPE_MISMATCH"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Geometry errors
	ErrCodeDegenerateCluster Code = "DEGENERATE_CLUSTER"

	// Collaborator contract errors
	ErrCodeAnalyzerShape Code = "ANALYZER_SHAPE"

	// I/O errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeWriteFailed  Code = "WRITE_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
