package cmd

import (
	"errors"
	"fmt"
)

// Exit codes for CLI commands.
const (
	ExitSuccess     = 0   // Successful execution
	ExitUserError   = 1   // Bad arguments, unknown task reference, empty text
	ExitConfigError = 2   // Invalid configuration or unusable storage
	ExitInterrupted = 130 // Cancelled by SIGINT/SIGTERM
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (use ExitUserError or ExitConfigError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// ExitCode extracts the exit code from an error.
// Returns ExitUserError if the error is not an ExitError, and ExitSuccess for nil.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUserError
}
