package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/medexpress/auth-api/internal/domain"
)

// OKEnvelope is the generic response wrapper. Every auth endpoint answers
// with ok plus at most one extra field.
type OKEnvelope struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Email    string `json:"email,omitempty"`
	DemoCode string `json:"demoCode,omitempty"`
	Message  string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, OKEnvelope{OK: false, Error: msg})
}

func isUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// httpError maps domain sentinel errors to status codes. Unauthorized keeps
// a deliberately blank message so failure reasons cannot be enumerated.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad request")
	case errors.Is(err, domain.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, "too many requests")
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, OKEnvelope{OK: false})
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
