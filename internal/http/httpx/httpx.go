// Package httpx holds the request decoding, validation and response helpers
// shared by the API handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/budgie/internal/apperr"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// ValidationError carries the per-field failures reported by the validator.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return apperr.ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error {
	return apperr.ErrValidation
}

// Decode reads a JSON body into dst and validates its struct tags.
// Unknown fields are ignored, so a client-supplied owner never reaches dst.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed json body", apperr.ErrValidation)
	}

	return Validate(dst)
}

func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return &ValidationError{Fields: fieldErrors(verrs)}
	}

	return fmt.Errorf("%w: %w", apperr.ErrValidation, err)
}

type errorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// Error writes err as a JSON error body. Internal errors are logged and
// answered with fallback so store details never reach the client.
func Error(w http.ResponseWriter, err error, fallback string) {
	status := Status(err)
	resp := errorResponse{}

	switch status {
	case http.StatusBadRequest, http.StatusConflict:
		resp.Error = err.Error()
	case http.StatusUnauthorized:
		resp.Error = apperr.ErrUnauthenticated.Error()
	case http.StatusForbidden:
		resp.Error = apperr.ErrForbidden.Error()
	case http.StatusNotFound:
		resp.Error = apperr.ErrNotFound.Error()
	default:
		slog.Error(fallback, "error", err)
		resp.Error = fallback
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Fields
	}

	JSON(w, status, resp)
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, v any) {
	JSON(w, http.StatusOK, v)
}

func Created(w http.ResponseWriter, v any) {
	JSON(w, http.StatusCreated, v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// IDParam parses the {id} route parameter as a UUID.
func IDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id", apperr.ErrValidation)
	}

	return id, nil
}

// QueryDate parses an optional YYYY-MM-DD (or RFC 3339) query parameter.
func QueryDate(r *http.Request, key string) (*time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return nil, nil
	}

	t, err := ParseDate(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a date", apperr.ErrValidation, key)
	}

	return &t, nil
}

// ParseDate accepts a plain date or an RFC 3339 timestamp and returns
// the calendar day in UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}

	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}
