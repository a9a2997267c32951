// Package apperror defines the service-wide error taxonomy and the mapping
// from typed errors to HTTP responses. Handlers return these errors and the
// echo error handler renders a structured JSON body:
//
//	{"error": "...", "missingFields": [...], "details": "..."}
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindUpstream
	KindTimeout
)

// Error is the common error type for all service failures.
type Error struct {
	Kind          Kind
	Message       string
	MissingFields []string
	// Err holds the underlying cause, surfaced as "details" for internal
	// and upstream failures.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindUpstream, KindTimeout, KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Validation returns a 400 error for malformed or missing input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// MissingFields returns a 400 error enumerating absent required fields.
func MissingFields(fields []string) *Error {
	return &Error{Kind: KindValidation, Message: "Missing required fields", MissingFields: fields}
}

// NotFound returns a 404 error for an absent referenced entity.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorized returns a 401 error for an unauthenticated caller.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Upstream wraps a non-2xx response from an external collaborator.
func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// Timeout wraps an external call that exceeded its deadline.
func Timeout(msg string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: msg, Err: err}
}

// Internal wraps an unexpected failure (DB errors, catch-all).
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// As extracts an *Error from err, or nil if err is of another type.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, k Kind) bool {
	e := As(err)
	return e != nil && e.Kind == k
}
