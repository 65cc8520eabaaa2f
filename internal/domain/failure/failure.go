package failure

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation was rejected.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindInvalidState        Kind = "invalid_state"
	KindConstraintViolation Kind = "constraint_violation"
	KindValidation          Kind = "validation"
	KindStore               Kind = "store"
)

// Error is a rejection carrying a display-ready message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by Kind and Message so package-level
// sentinels can be compared with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

// New creates a failure of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a failure of the given kind around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// NotFound is shorthand for New(KindNotFound, ...).
func NotFound(message string) *Error { return New(KindNotFound, message) }

// InvalidState is shorthand for New(KindInvalidState, ...).
func InvalidState(message string) *Error { return New(KindInvalidState, message) }

// Constraint is shorthand for New(KindConstraintViolation, ...).
func Constraint(message string) *Error { return New(KindConstraintViolation, message) }

// Validation is shorthand for New(KindValidation, ...).
func Validation(message string) *Error { return New(KindValidation, message) }

// Store wraps an infrastructure error. The message stays generic so callers
// never show driver text to members.
func Store(err error) *Error {
	return Wrap(KindStore, "storage unavailable, please try again", err)
}

// KindOf reports the Kind of err. Errors that are not *Error are treated
// as store failures.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindStore
}

// Message returns the display message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return "storage unavailable, please try again"
}
