// Package apperror defines the error kinds surfaced by services and their
// mapping onto HTTP responses.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindInvalidArgument Kind = "INVALID_ARGUMENT"
	KindConflict        Kind = "CONFLICT"
	KindNotFound        Kind = "NOT_FOUND"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindQuotaExhausted  Kind = "QUOTA_EXHAUSTED"
	KindNotActive       Kind = "NOT_ACTIVE"
	KindAlreadyViewed   Kind = "ALREADY_VIEWED"
	KindInternal        Kind = "INTERNAL"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindInvalidArgument, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden, KindQuotaExhausted, KindNotActive:
		return http.StatusForbidden
	case KindAlreadyViewed:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidArgument(message string) *Error { return New(KindInvalidArgument, message) }
func Conflict(message string) *Error        { return New(KindConflict, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func QuotaExhausted(message string) *Error  { return New(KindQuotaExhausted, message) }
func NotActive(message string) *Error       { return New(KindNotActive, message) }
func AlreadyViewed(message string) *Error   { return New(KindAlreadyViewed, message) }

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// From extracts an *Error from the chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an *Error of the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := From(err)
	return ok && appErr.Kind == kind
}

// KindOf returns the kind carried by err, or KindInternal.
func KindOf(err error) Kind {
	if appErr, ok := From(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
