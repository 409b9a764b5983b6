// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Empty inputs, insufficient data, bad parameters
//   - Data source errors (200-299): Fetch failures, missing fields, empty payloads
//   - Output errors (300-399): Chart rendering and report writing failures
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeEmptyInput, "price panel has no rows")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeNoDataFound, "no data fetched for tickers %v", tickers)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeFetchFailed, "download failed", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeEmptyInput) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsEmptyInputError checks if an error was caused by a zero-row panel or series.
func IsEmptyInputError(err error) bool {
	return HasCode(err, ErrCodeEmptyInput)
}

// IsInsufficientColumnsError checks if an error was caused by a panel with too
// few columns for a pairwise computation.
func IsInsufficientColumnsError(err error) bool {
	return HasCode(err, ErrCodeInsufficientColumns)
}

// InsufficientDataError represents an error when there are fewer observations
// than a rolling computation needs (e.g., rows shorter than the window size).
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Actual data points available
	Message  string // Human-readable message
}

// NewInsufficientData creates a coded Error carrying an InsufficientDataError
// cause, so callers can branch either on the code or on the concrete type.
func NewInsufficientData(required, actual int, message string) *Error {
	return &Error{
		Code:    ErrCodeInsufficientData,
		Message: message,
		Cause: &InsufficientDataError{
			Required: required,
			Actual:   actual,
			Message:  message,
		},
	}
}

// NewInsufficientDataf creates a coded insufficient-data Error with a formatted message.
func NewInsufficientDataf(required, actual int, format string, args ...any) *Error {
	return NewInsufficientData(required, actual, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
// It uses errors.As to check the error chain.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}
