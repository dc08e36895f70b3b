package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const emailKey contextKey = "email"

// AccessCookie is the cookie carrying the short-lived access token,
// readable by the whole origin.
const AccessCookie = "access_token"

// AccessValidator verifies an access token and returns its subject email.
type AccessValidator interface {
	ValidateAccess(token string) (string, error)
}

// Auth returns middleware that validates the access-token cookie and
// injects the authenticated email into the request context. Any failure
// reads as plain 401; there is no server-side session state to clear.
func Auth(validator AccessValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(AccessCookie)
			if err != nil || c.Value == "" {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			email, err := validator.ValidateAccess(c.Value)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), emailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// EmailFromContext extracts the authenticated email from the request context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}
