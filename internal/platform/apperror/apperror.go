// Package apperror defines the error taxonomy shared by every service in
// the API. Services return these typed errors; the HTTP layer maps them to
// status codes and renders a uniform {"error": message} body.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an error into one of the categories the HTTP layer knows
// how to translate.
type Kind int

const (
	Internal Kind = iota
	InvalidInput
	Unauthorized
	Forbidden
	NotFound
	Conflict
)

// Error is a classified error with a client-facing message. The message is
// part of the API contract, so callers construct it verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional underlying cause, never shown to clients
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches an underlying cause while keeping the client-facing message.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Convenience constructors for the common kinds.

func InvalidInputf(message string) *Error { return New(InvalidInput, message) }
func Unauthorizedf(message string) *Error { return New(Unauthorized, message) }
func Forbiddenf(message string) *Error    { return New(Forbidden, message) }
func NotFoundf(message string) *Error     { return New(NotFound, message) }
func Conflictf(message string) *Error     { return New(Conflict, message) }

// Internalf wraps an unexpected failure. Clients see a generic message.
func Internalf(err error) *Error {
	return &Error{Kind: Internal, Message: "Internal server error", Err: err}
}

// HTTPStatus maps a Kind to its HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidInput:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// From extracts an *Error from err's chain, or nil if there is none.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	appErr := From(err)
	return appErr != nil && appErr.Kind == kind
}
