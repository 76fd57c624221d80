// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services return *Error values; the API boundary maps them to status
// codes exactly once.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindTokenExpired
	KindForbidden
	KindConflict
)

// HTTPStatus returns the status code a kind maps to at the request boundary.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized, KindTokenExpired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error   { return newError(KindValidation, msg) }
func NotFound(msg string) *Error     { return newError(KindNotFound, msg) }
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }
func TokenExpired(msg string) *Error { return newError(KindTokenExpired, msg) }
func Forbidden(msg string) *Error    { return newError(KindForbidden, msg) }
func Conflict(msg string) *Error     { return newError(KindConflict, msg) }

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err, or KindInternal for errors outside the
// taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-facing message for err. Errors outside the
// taxonomy get a generic message so internals never leak into responses.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
