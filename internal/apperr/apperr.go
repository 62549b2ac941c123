// Package apperr defines the error taxonomy shared by repositories, services and handlers.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindSelfFollow
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "ConflictError"
	case KindAuth:
		return "AuthError"
	case KindForbidden:
		return "ForbiddenError"
	case KindNotFound:
		return "NotFoundError"
	case KindSelfFollow:
		return "SelfFollowError"
	default:
		return "InternalError"
	}
}

// Error carries a user-facing Message and, for internal failures, the wrapped cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	// Missing lists required fields that were absent, for registration-style validation.
	Missing map[string]bool
	Err     error
}

func (e *Error) Error() string {
	var parts []string
	if e.Op != "" {
		parts = append(parts, e.Op)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, op, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

func Validation(op, format string, args ...interface{}) *Error {
	return newError(KindValidation, op, format, args...)
}

// MissingFields builds a validation error that enumerates absent required fields.
// It returns nil when nothing is missing.
func MissingFields(op, message string, missing map[string]bool) *Error {
	for _, absent := range missing {
		if absent {
			return &Error{Kind: KindValidation, Op: op, Message: message, Missing: missing}
		}
	}
	return nil
}

func Conflict(op, format string, args ...interface{}) *Error {
	return newError(KindConflict, op, format, args...)
}

func Auth(op, format string, args ...interface{}) *Error {
	return newError(KindAuth, op, format, args...)
}

func Forbidden(op, format string, args ...interface{}) *Error {
	return newError(KindForbidden, op, format, args...)
}

func NotFound(op, format string, args ...interface{}) *Error {
	return newError(KindNotFound, op, format, args...)
}

func SelfFollow(op string) *Error {
	return newError(KindSelfFollow, op, "You cannot follow yourself")
}

// Internal wraps an unexpected failure; the cause is logged, never shown to clients.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Message: "Internal server error", Err: err}
}

// KindOf reports the kind of the first *Error in err's chain; anything else is internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "Internal server error"
}

// MissingOf returns the missing-field map attached to err, if any.
func MissingOf(err error) map[string]bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Missing
	}
	return nil
}
