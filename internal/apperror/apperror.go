package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so callers can tell a user-correctable
// failure from a lifecycle violation or a backing-store fault.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindInvalidState
	KindExpired
	KindMismatch
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindExpired:
		return "expired"
	case KindMismatch:
		return "mismatch"
	case KindDependency:
		return "dependency_failure"
	default:
		return "unknown"
	}
}

// Error is the application error type. Field is set for validation errors so
// the caller knows which input to correct.
type Error struct {
	Kind  Kind
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode maps the error kind to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindExpired, KindMismatch:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindDependency:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func Validation(field, msg string) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: msg}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Msg: msg}
}

func Expired(msg string) *Error {
	return &Error{Kind: KindExpired, Msg: msg}
}

func Mismatch(msg string) *Error {
	return &Error{Kind: KindMismatch, Msg: msg}
}

func Dependency(msg string, err error) *Error {
	return &Error{Kind: KindDependency, Msg: msg, Err: err}
}

// KindOf returns the kind of err, unwrapping as needed. Errors that are not
// application errors are treated as dependency failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindDependency
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FieldOf returns the offending field for validation errors, or "".
func FieldOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
