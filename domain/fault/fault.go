// Package fault defines the error taxonomy shared by every operation in the
// platform. Each error carries a Kind so the handler layer can map it to a
// response code without string matching.
package fault

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindValidation        Kind = "validation"
	KindConflict          Kind = "conflict"
	KindNotFound          Kind = "not_found"
	KindInvalidTransition Kind = "invalid_transition"
	KindInternal          Kind = "internal"
)

// Error is the structured error returned by application services.
type Error struct {
	Kind    Kind
	Message string

	// Expected and Actual are populated for invalid-transition errors so
	// callers can refresh and react instead of blindly retrying.
	Expected string
	Actual   string

	cause error
}

func (e *Error) Error() string {
	if e.Kind == KindInvalidTransition && e.Expected != "" {
		return fmt.Sprintf("%s: %s (expected %q, actual %q)", e.Kind, e.Message, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func NotFound(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// InvalidTransition reports a state-machine precondition failure with both
// sides of the mismatch.
func InvalidTransition(msg, expected, actual string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: msg, Expected: expected, Actual: actual}
}

func Internal(msg string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: msg, cause: cause}
}

// KindOf returns the Kind of err, or KindInternal for errors that did not
// originate from this package.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
