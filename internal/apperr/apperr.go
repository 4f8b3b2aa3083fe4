package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the failure classes the API distinguishes.
// Services wrap these with fmt.Errorf("%w: ...") so handlers can map
// them to HTTP statuses with errors.Is instead of matching messages.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrAuth       = errors.New("unauthorized")
	ErrForbidden  = errors.New("forbidden")
	ErrInvariant  = errors.New("invariant violated")
	ErrConflict   = errors.New("conflict")
)

// Status maps an error to the HTTP status code it should produce.
// Unrecognized errors are treated as internal failures.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvariant):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
