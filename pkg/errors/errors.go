// Package errors defines the error taxonomy shared by the assistant pipeline
// and its HTTP surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Errno is a coded error that maps onto an HTTP status.
type Errno struct {
	// Code is a stable machine-readable identifier.
	Code string
	// HTTP is the status the handler layer responds with.
	HTTP int
	// Message is a caller-safe description.
	Message string
}

// Error implements the error interface.
func (e *Errno) Error() string {
	return e.Message
}

// WithMessage returns a copy of the errno carrying a formatted message.
func (e *Errno) WithMessage(format string, args ...any) *Errno {
	return &Errno{
		Code:    e.Code,
		HTTP:    e.HTTP,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap returns a copy of the errno whose message includes the cause.
func (e *Errno) Wrap(err error) *Errno {
	if err == nil {
		return e
	}
	return &Errno{
		Code:    e.Code,
		HTTP:    e.HTTP,
		Message: fmt.Sprintf("%s: %v", e.Message, err),
	}
}

// Is supports errors.Is matching by code.
func (e *Errno) Is(target error) bool {
	var t *Errno
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

var (
	// ErrInvalidInput rejects malformed requests before any external call.
	ErrInvalidInput = &Errno{Code: "InvalidInput", HTTP: http.StatusBadRequest, Message: "invalid input"}

	// ErrUpstreamUnavailable signals an embedding, index, or model failure.
	// It is never surfaced raw to end users.
	ErrUpstreamUnavailable = &Errno{Code: "UpstreamUnavailable", HTTP: http.StatusServiceUnavailable, Message: "upstream service unavailable"}

	// ErrNotFound signals a missing resource.
	ErrNotFound = &Errno{Code: "NotFound", HTTP: http.StatusNotFound, Message: "resource not found"}

	// ErrInternal covers truly unexpected faults.
	ErrInternal = &Errno{Code: "Internal", HTTP: http.StatusInternalServerError, Message: "internal error"}
)

// FromError extracts the Errno from err, defaulting to ErrInternal.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithMessage("%v", err)
}
