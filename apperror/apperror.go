// Package apperror defines the failures handlers report to API clients.
// Every Error carries the HTTP status it maps to, so handlers never pick
// status codes ad hoc.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation      Kind = "validation"
	KindNotFound        Kind = "not_found"
	KindDuplicate       Kind = "duplicate"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindTooManyRequests Kind = "too_many_requests"
	KindInternal        Kind = "internal"
)

// FieldError names one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	Data    any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithData attaches a payload rendered in the envelope's data field.
func (e *Error) WithData(data any) *Error {
	e.Data = data
	return e
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusUnprocessableEntity, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// Duplicate reports a uniqueness violation. Older endpoints answer 400 and
// newer ones 409, so the status is chosen by the caller.
func Duplicate(status int, message string) *Error {
	return &Error{Kind: KindDuplicate, Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

func TooLarge(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusRequestEntityTooLarge, Message: message}
}

func Unavailable(message string) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusServiceUnavailable, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden, Message: message}
}

func TooManyRequests(message string) *Error {
	return &Error{Kind: KindTooManyRequests, Status: http.StatusTooManyRequests, Message: message}
}

// Internal wraps an unexpected failure. The wrapped message is echoed to the
// client in the envelope data.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Status: http.StatusInternalServerError, Message: "Server Error", Err: err}
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
