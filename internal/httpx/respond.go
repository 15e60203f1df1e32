package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-crm-records.git/internal/crm"
)

// Wire codes for the failure categories. The gateway maps them back onto
// HTTP statuses for its own callers; the services only guarantee the code.
const (
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeReferenceNotFound   = "REFERENCE_NOT_FOUND"
	CodeNotFound            = "NOT_FOUND"
	CodeStoreUnavailable    = "STORE_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, err error) {
	code, status := Categorize(err)
	WriteJSON(w, status, ErrorBody{Error: err.Error(), Code: code})
}

func Categorize(err error) (code string, status int) {
	switch {
	case errors.Is(err, crm.ErrInvalidArgument):
		return CodeInvalidArgument, http.StatusBadRequest
	case errors.Is(err, crm.ErrConstraintViolation):
		return CodeConstraintViolation, http.StatusConflict
	case errors.Is(err, crm.ErrReferenceNotFound):
		return CodeReferenceNotFound, http.StatusNotFound
	case errors.Is(err, crm.ErrNotFound):
		return CodeNotFound, http.StatusNotFound
	case errors.Is(err, crm.ErrStoreUnavailable):
		return CodeStoreUnavailable, http.StatusServiceUnavailable
	}
	return CodeInternal, http.StatusInternalServerError
}

// SentinelFor is the inverse of Categorize, used by clients rebuilding a
// category from the wire code.
func SentinelFor(code string) error {
	switch code {
	case CodeInvalidArgument:
		return crm.ErrInvalidArgument
	case CodeConstraintViolation:
		return crm.ErrConstraintViolation
	case CodeReferenceNotFound:
		return crm.ErrReferenceNotFound
	case CodeNotFound:
		return crm.ErrNotFound
	case CodeStoreUnavailable:
		return crm.ErrStoreUnavailable
	}
	return nil
}
