package handler

import (
	"encoding/json"
	"net/http"

	"github.com/medexpress/auth-api/internal/application/auth"
	"github.com/medexpress/auth-api/internal/pkg/validate"
	"github.com/medexpress/auth-api/internal/transport/http/middleware"
)

// AuthHandler handles the email-code login flow endpoints.
type AuthHandler struct {
	svc     auth.Service
	cookies CookieConfig
}

func NewAuthHandler(svc auth.Service, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req auth.SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	demoCode, err := h.svc.SendCode(r.Context(), req.Email)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true, DemoCode: demoCode})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		// Malformed submissions get the same flat negative as wrong codes.
		writeJSON(w, http.StatusOK, OKEnvelope{OK: false})
		return
	}
	pair, err := h.svc.VerifyCode(r.Context(), req.Email, req.Code)
	if err != nil {
		verifyError(w, err)
		return
	}
	setAuthCookies(w, pair.Access, pair.Refresh, pair.CSRF, h.cookies)
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(refreshCookie)
	if err != nil || c.Value == "" {
		writeJSON(w, http.StatusUnauthorized, OKEnvelope{OK: false})
		return
	}
	pair, err := h.svc.Refresh(r.Context(), c.Value)
	if err != nil {
		httpError(w, err)
		return
	}
	setAuthCookies(w, pair.Access, pair.Refresh, pair.CSRF, h.cookies)
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
}

// Logout always succeeds. Revocation is best-effort; the artifacts are
// cleared even when no usable refresh token was presented.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(refreshCookie); err == nil {
		h.svc.Logout(r.Context(), c.Value)
	}
	clearAuthCookies(w, h.cookies)
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.EmailFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, OKEnvelope{OK: false})
		return
	}
	writeJSON(w, http.StatusOK, OKEnvelope{OK: true, Email: email})
}

// verifyError keeps the verify endpoint's failure shape flat: a wrong,
// expired or unknown code is a 200 {ok:false}, indistinguishable from each
// other. Rate limiting stays a distinct 429 so clients can say "try later"
// instead of "wrong code".
func verifyError(w http.ResponseWriter, err error) {
	if isUnauthorized(err) {
		writeJSON(w, http.StatusOK, OKEnvelope{OK: false})
		return
	}
	httpError(w, err)
}
