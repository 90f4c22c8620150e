package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the operation lost a race or collided with existing
// state: a duplicate idempotency key with a different payload, a concurrent post on
// the same document, a duplicate bank-transaction match, an overlapping
// reconciliation period, or an already-closed session.
var ErrConflict = errors.New("conflict with existing state")

// ErrLocked indicates that a mutation touched a document dated on or before the
// organization's lock date.
var ErrLocked = errors.New("period is locked")

// ErrInvariantViolation indicates a broken accounting invariant (an unbalanced
// ledger batch). It is a programming defect, never user error; it is surfaced as a
// 500 and must never be auto-corrected.
var ErrInvariantViolation = errors.New("accounting invariant violated")

// ErrSerialization indicates a transient storage serialization failure. It is
// retried once internally; if it persists it is surfaced as a conflict.
var ErrSerialization = errors.New("storage serialization failure")

// ErrForbidden indicates the actor is not allowed to act on the organization.
var ErrForbidden = errors.New("forbidden")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Code returns the stable machine-readable code for an error, for API responses.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	case errors.Is(err, ErrConflict), errors.Is(err, ErrSerialization):
		return "conflict"
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrInvariantViolation):
		return "invariant_violation"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "internal_error"
	}
}

// AppError wraps a lower-level error with an HTTP-ish status code and a message
// suitable for logging. Repositories use it to annotate storage failures.
type AppError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(statusCode int, message string, err error) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}
