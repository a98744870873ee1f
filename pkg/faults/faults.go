package faults

import (
	"errors"
	"net/http"

	"golang.org/x/xerrors"
)

// Sentinel errors shared across services. Handlers map these onto HTTP
// status codes; everything else is a 500.
var (
	ErrValidation           = errors.New("insufficient fields")
	ErrNotFound             = errors.New("not found")
	ErrDirectoryUnavailable = errors.New("member directory unavailable")
	ErrStorage              = errors.New("storage failure")
)

// Validation wraps ErrValidation with a message describing the bad input.
func Validation(format string, args ...interface{}) error {
	return xerrors.Errorf(format+": %w", append(args, ErrValidation)...)
}

// NotFound wraps ErrNotFound with the missing resource's identity.
func NotFound(format string, args ...interface{}) error {
	return xerrors.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Directory wraps a directory read failure.
func Directory(err error) error {
	return xerrors.Errorf("%v: %w", err, ErrDirectoryUnavailable)
}

// Storage wraps a persistence failure.
func Storage(err error) error {
	return xerrors.Errorf("%v: %w", err, ErrStorage)
}

// HTTPStatus maps an error onto the status code the routing layer
// returns for it.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
