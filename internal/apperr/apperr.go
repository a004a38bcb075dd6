// Package apperr holds the error taxonomy shared by services and HTTP handlers.
// Services wrap these sentinels with context; handlers map them to status codes.
package apperr

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("invalid data")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)
