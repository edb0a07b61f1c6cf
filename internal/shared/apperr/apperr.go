// Package apperr defines the sentinel error taxonomy shared by every
// service and repository. Higher layers translate these into HTTP
// responses; business code wraps them with context via fmt.Errorf and %w
// so callers can still match with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound signals an unknown show, ticket, order or venue.
var ErrNotFound = errors.New("not found")

// ErrInvalidArgument signals malformed input such as a date outside a
// show's schedule or an unparseable QR payload.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrConflict signals an inventory collision: a seat already sold, a
// duplicate seat within one cart, or general-access capacity exceeded.
var ErrConflict = errors.New("conflict")

// ErrUnexpectedState signals a downstream or encoding failure that is
// neither the caller's fault nor an inventory conflict.
var ErrUnexpectedState = errors.New("unexpected state")

func wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

// InvalidArgumentf wraps ErrInvalidArgument with a formatted message.
func InvalidArgumentf(format string, args ...interface{}) error {
	return wrap(ErrInvalidArgument, format, args...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...interface{}) error {
	return wrap(ErrConflict, format, args...)
}

// UnexpectedStatef wraps ErrUnexpectedState with a formatted message.
func UnexpectedStatef(format string, args ...interface{}) error {
	return wrap(ErrUnexpectedState, format, args...)
}

// HTTPStatus maps an error to the HTTP status code controllers should
// respond with. Unrecognized errors map to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnexpectedState):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
