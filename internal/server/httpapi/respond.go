// Package httpapi exposes the public JSON API over chi. Every response uses
// the same envelope: {"status": "success"|"error", "message": ..., "data": ...}.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pawmate/pawmate/internal/common"
)

// Envelope is the uniform response body.
type Envelope struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func respondSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, Envelope{Status: "success", Message: message, Data: data})
}

func respondError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Status: "error", Message: message})
}

func respondValidation(w http.ResponseWriter, message string, fields map[string]string) {
	writeJSON(w, http.StatusBadRequest, Envelope{Status: "error", Message: message, Errors: fields})
}

// respondServiceError maps sentinel errors from the service layer onto HTTP
// status codes. Unknown errors become an opaque 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		respondError(w, http.StatusBadRequest, "validation failed")
	case errors.Is(err, common.ErrorNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		respondError(w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		respondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorInactiveAccount):
		respondError(w, http.StatusForbidden, "account disabled")
	case errors.Is(err, common.ErrorForbidden):
		respondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, common.ErrVerificationExpired):
		respondError(w, http.StatusBadRequest, "verification token expired")
	case errors.Is(err, common.ErrVerificationUsed):
		respondError(w, http.StatusBadRequest, "verification token already used")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
