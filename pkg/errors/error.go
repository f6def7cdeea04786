// Package errors carries the coded errors of the optimizer.
//
// Codes are grouped by range:
//   - 1-99: unknown
//   - 100-199: configuration, raised before any backtest runs
//   - 200-299: data and lookups (price files, metrics, strategies)
//   - 600-699: per-pair backtest execution
//
// A coded error is created with New or Newf and attached to a cause with Wrap or Wrapf.
// GetCode and HasCode see through fmt %w wrapping.
package errors

import (
	"errors"
	"fmt"
)

// Error is an error with a code, a message and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New returns an Error without a cause.
func New(code ErrorCode, message string) *Error {
	return Wrap(code, message, nil)
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), nil)
}

// Wrap attaches a code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%d] %s", e.Code, e.Message)
	}

	return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode returns the code of the outermost Error in err's chain, or ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}

	return ErrCodeUnknown
}

// HasCode reports whether GetCode(err) is code.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// IsConfigurationError reports whether err was raised while validating a sweep:
// a malformed parameter spec, an unknown progression mode or a missing parameter.
func IsConfigurationError(err error) bool {
	return GetCode(err).IsConfiguration()
}

// IsBacktestExecutionError reports whether err surfaced from a per-pair backtest.
func IsBacktestExecutionError(err error) bool {
	return GetCode(err).IsBacktest()
}

// InsufficientDataError reports a series too short for a calculation.
type InsufficientDataError struct {
	// What names the series, e.g. "price bars".
	What     string
	Required int
	Actual   int
}

// NewInsufficientDataError returns an error for a series named what that holds actual
// observations where required are needed.
func NewInsufficientDataError(what string, required, actual int) *InsufficientDataError {
	return &InsufficientDataError{What: what, Required: required, Actual: actual}
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("at least %d %s are required, got %d", e.Required, e.What, e.Actual)
}

// IsInsufficientDataError reports whether err's chain holds an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var short *InsufficientDataError

	return errors.As(err, &short)
}
