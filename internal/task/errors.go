package task

import (
	"errors"
	"fmt"
)

// ErrEmptyText is wrapped by ValidationError when text is empty after trimming.
var ErrEmptyText = errors.New("must not be empty")

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // field or JSON path of the offending value
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// InvalidFilterError is returned for a filter outside all|active|completed.
type InvalidFilterError struct {
	Value string
}

func (e *InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid filter %q, must be one of: all, active, completed", e.Value)
}
