// Package apperror provides a single error type that carries an optional
// HTTP status hint through the request pipeline, mirroring the
// validate->preprocess->derive->prove chain's need to propagate a client
// vs. internal classification without losing the underlying cause.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error wraps a cause with an optional HTTP status hint. hasStatus false
// means "not yet classified"; Status() defaults to 500 when unset.
type Error struct {
	Err    error
	status int
	hasStatus bool
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the carried HTTP status, defaulting to 500.
func (e *Error) Status() int {
	if !e.hasStatus {
		return http.StatusInternalServerError
	}
	return e.status
}

// Context wraps the error with additional message context, preserving the
// status hint.
func (e *Error) Context(msg string) *Error {
	return &Error{Err: fmt.Errorf("%s: %w", msg, e.Err), status: e.status, hasStatus: e.hasStatus}
}

// Wrap turns any error into *Error with no status hint, unless it is already
// an *Error (in which case it is returned unchanged).
func Wrap(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Err: err}
}

// BadRequest builds a client-caused error (HTTP 400).
func BadRequest(err error) *Error {
	return &Error{Err: err, status: http.StatusBadRequest, hasStatus: true}
}

// Internal builds a server-caused error (HTTP 500).
func Internal(err error) *Error {
	return &Error{Err: err, status: http.StatusInternalServerError, hasStatus: true}
}

// ServiceUnavailable builds an upstream-dependency error (HTTP 503).
func ServiceUnavailable(err error) *Error {
	return &Error{Err: err, status: http.StatusServiceUnavailable, hasStatus: true}
}

// WithStatus attaches a status to a plain error unless it already carries one.
func WithStatus(err error, status int) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) && ae.hasStatus {
		return ae
	}
	return &Error{Err: err, status: status, hasStatus: true}
}

// Bad-request helper in the style of the original `bail!` macro: build a
// plain message as a client error.
func BadRequestf(format string, args ...any) *Error {
	return BadRequest(fmt.Errorf(format, args...))
}

func Internalf(format string, args ...any) *Error {
	return Internal(fmt.Errorf(format, args...))
}
