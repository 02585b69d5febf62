// Package apperror defines the error kinds handlers translate into HTTP
// status codes.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrActiveSessionExists = errors.New("active session already exists")
)

// Error carries a client-facing message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func New(kind error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return New(ErrValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(ErrNotFound, format, args...)
}

func InsufficientStock(name, size, color string) *Error {
	return New(ErrInsufficientStock, "Insufficient stock for %s (Size: %s, Color: %s)", name, size, color)
}

// ActiveSessionError is returned when a cashier tries to open a second
// active session.
type ActiveSessionError struct {
	SessionID string
}

func (e *ActiveSessionError) Error() string {
	return "You already have an active session. Please close it before starting a new one."
}

func (e *ActiveSessionError) Unwrap() error { return ErrActiveSessionExists }

// Message returns the client-facing message of err, or "" if err carries none.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	var se *ActiveSessionError
	if errors.As(err, &se) {
		return se.Error()
	}
	return ""
}
