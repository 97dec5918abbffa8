package store

import (
	"errors"
	"fmt"
)

// ErrNothingToClear is returned by the bulk clear requests when there is
// nothing for them to remove. It is an informational outcome, not a failure.
var ErrNothingToClear = errors.New("nothing to clear")

// PersistenceError wraps a storage failure while loading or saving the slot.
type PersistenceError struct {
	Op  string // "load" or "save"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s tasks (%s): %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}
