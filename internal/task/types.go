package task

import (
	"errors"
	"fmt"
)

// EntryType is the only data.type value the task API may return for a task lookup.
const EntryType = "task"

// Task is a work item fetched from the remote task API.
// Values are built once per successful parse and never mutated afterwards.
type Task struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// HandlingError is the single failure kind raised by the task API client for
// non-2xx responses, missing response documents and unsupported entry types.
// It carries only a human-readable message.
type HandlingError struct {
	Message string
}

// Error implements the error interface.
func (e *HandlingError) Error() string {
	return e.Message
}

// NewHandlingError builds a HandlingError from a format string.
func NewHandlingError(format string, args ...interface{}) *HandlingError {
	if len(args) == 0 {
		return &HandlingError{Message: format}
	}
	return &HandlingError{Message: fmt.Sprintf(format, args...)}
}

// IsHandlingError reports whether err is, or wraps, a HandlingError.
func IsHandlingError(err error) bool {
	var he *HandlingError
	return errors.As(err, &he)
}
