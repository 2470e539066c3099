package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error independently of its message.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindForbidden         Kind = "forbidden"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindInsufficientStock Kind = "insufficient_stock"
	KindInternal          Kind = "internal"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind, so sentinels
// below can be matched with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// PublicMessage is the text safe to return to a client. Internal errors
// never leak their cause.
func (e *Error) PublicMessage() string {
	if e.Kind == KindInternal && e.Message == "" {
		return "Internal server error"
	}
	return e.Message
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *Error {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, KindForbidden, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func InsufficientStock(message string) *Error {
	return New(http.StatusConflict, KindInsufficientStock, message, nil)
}

// Internal wraps an unexpected failure. The message is what clients see.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindInternal, message, err)
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation        = Validation("Validation error")
	ErrUnauthorized      = Unauthorized("Unauthorized")
	ErrForbidden         = Forbidden("Forbidden")
	ErrNotFound          = NotFound("Not found")
	ErrConflict          = Conflict("Conflict")
	ErrInsufficientStock = InsufficientStock("Insufficient stock")
	ErrInternal          = Internal("Internal server error", nil)
)
