// Package errors contains helper functions for wrapping errors with stack traces.
package errors

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// New creates a new error that carries the stack trace of the caller.
func New(message string) error {
	return goerrors.Wrap(errors.New(message), 1)
}

// Errorf creates a new error and wraps in an Error type that contains the stack trace.
func Errorf(message string, args ...interface{}) error {
	err := fmt.Errorf(message, args...)
	return goerrors.Wrap(err, 1)
}

// WithStackTrace wraps the given error in an Error type that contains the stack trace. If the given error already
// has a stack trace, it is used directly. If the given error is nil, return nil.
func WithStackTrace(err error) error {
	if err == nil {
		return nil
	}

	return goerrors.Wrap(err, 1)
}

// IsError returns true if actual is the same type of error as expected. This method unwraps the given error objects
// (if they are wrapped in objects with a stacktrace) and then does a simple equality check on them.
func IsError(actual error, expected error) bool {
	return goerrors.Is(actual, expected)
}

// ErrorStack returns the error message followed by the callstack, if one was captured.
func ErrorStack(err error) string {
	if err == nil {
		return ""
	}

	var goErr *goerrors.Error
	if errors.As(err, &goErr) {
		return goErr.ErrorStack()
	}

	return err.Error()
}
