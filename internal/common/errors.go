// Package common defines shared constants, sentinel errors and small helpers
// used across the server, worker and client. Callers should use errors.Is and
// errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")
	ErrorInvalidParent = errors.New("invalid parent")
	ErrorQueueEmpty    = errors.New("queue is empty")

	// Service-level errors.
	ErrorInternal         = errors.New("internal error")
	ErrorUnauthorized     = errors.New("unauthorized")
	ErrorTransientStorage = errors.New("storage unavailable")

	// Validation errors. Concrete failures are reported as *ValidationError.
	ErrorValidation = errors.New("validation error")
)

// ValidationError reports a missing or invalid request field. Message is the
// client-facing diagnostic, e.g. "Missing name".
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes every ValidationError match ErrorValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrorValidation
}

// JobError classifies a job processing failure. Fatal failures are never
// redelivered; retryable ones are redelivered until the attempt budget is spent.
type JobError struct {
	Fatal bool
	Err   error
}

func (e *JobError) Error() string {
	kind := "retryable"
	if e.Fatal {
		kind = "fatal"
	}
	return fmt.Sprintf("%s job error: %v", kind, e.Err)
}

func (e *JobError) Unwrap() error {
	return e.Err
}

// FatalJobError marks err as a poison-pill failure.
func FatalJobError(err error) error {
	return &JobError{Fatal: true, Err: err}
}

// RetryableJobError marks err as eligible for redelivery.
func RetryableJobError(err error) error {
	return &JobError{Err: err}
}

// IsFatalJobError reports whether err carries a fatal JobError.
func IsFatalJobError(err error) bool {
	var je *JobError
	return errors.As(err, &je) && je.Fatal
}
