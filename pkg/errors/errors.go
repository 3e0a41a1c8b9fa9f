package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors by code so that Clone/Wrap derivatives still compare
// equal to their predefined base value.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e != nil && e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the failure taxonomy of the lookup pipeline.
var (
	// ErrUpstreamUnreachable covers network, DNS and timeout failures
	// talking to the catalog site. Transient; never retried internally.
	ErrUpstreamUnreachable = New("UPSTREAM_UNREACHABLE", http.StatusServiceUnavailable, "course catalog is unreachable")
	// ErrUpstreamBlocked means the catalog answered with an anti-bot
	// challenge instead of data. Reported distinctly so operators can
	// tell blocking from an outage.
	ErrUpstreamBlocked = New("UPSTREAM_BLOCKED", http.StatusBadGateway, "course catalog rejected the request (anti-bot challenge)")
	// ErrParse means the page structure no longer matches what the
	// parser expects. Distinct from a page with zero results.
	ErrParse = New("PARSE_ERROR", http.StatusBadGateway, "unrecognized course catalog page layout")
	// ErrInvalidBatchSize rejects a batch before any fetch is dispatched.
	ErrInvalidBatchSize = New("INVALID_BATCH_SIZE", http.StatusBadRequest, "batch must contain between 1 and 20 course codes")

	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
