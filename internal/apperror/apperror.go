// Package apperror defines the error taxonomy shared by the client and the
// reference execution service.
//
// Every failure is an *AppError that unwraps to one of the sentinel errors
// below, so callers classify with errors.Is and read the human-readable text
// from Message.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")

	// ErrNetwork means the request never produced a usable response:
	// the transport failed or the body could not be decoded.
	ErrNetwork = errors.New("network failure")
	// ErrRemote means the service answered with ok:false.
	ErrRemote = errors.New("remote failure")
	// ErrBusy means a run is already in flight.
	ErrBusy = errors.New("busy")
)

type AppError struct {
	Err     error  // sentinel
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: lower-level error that triggered this one
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// either of them.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Network wraps a transport or decoding failure for the given operation.
// The message keeps the raw cause because it is rendered verbatim to the user.
func Network(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrNetwork,
		Message: fmt.Sprintf("%s: %v", op, cause),
		Cause:   cause,
	}
}

// Remote carries the error string the service returned with ok:false.
func Remote(message string) *AppError {
	return &AppError{
		Err:     ErrRemote,
		Message: message,
	}
}

// Busy reports that an operation was ignored because another one is running.
func Busy(operation string) *AppError {
	return &AppError{
		Err:     ErrBusy,
		Message: fmt.Sprintf("%s already in progress", operation),
	}
}
