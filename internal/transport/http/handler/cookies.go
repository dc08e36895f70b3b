package handler

import (
	"net/http"
	"time"
)

const (
	accessCookie  = "access_token"
	refreshCookie = "refresh_token"
	csrfCookie    = "csrf_token"

	// The refresh token is only ever presented to the refresh endpoint, so
	// its cookie is scoped to exactly that path.
	refreshCookiePath = "/api/auth/refresh"
)

// CookieConfig drives the lifetime and flags of the three auth cookies.
type CookieConfig struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Secure     bool
}

// setAuthCookies sets the three response artifacts: the HttpOnly access and
// refresh tokens, and the script-readable anti-forgery token the front end
// echoes on state-changing requests.
func setAuthCookies(w http.ResponseWriter, access, refresh, csrf string, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    access,
		Path:     "/",
		MaxAge:   int(cfg.AccessTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Secure,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refresh,
		Path:     refreshCookiePath,
		MaxAge:   int(cfg.RefreshTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Secure,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    csrf,
		Path:     "/",
		MaxAge:   int(cfg.RefreshTTL.Seconds()),
		HttpOnly: false,
		SameSite: http.SameSiteLaxMode,
		Secure:   cfg.Secure,
	})
}

func clearAuthCookies(w http.ResponseWriter, cfg CookieConfig) {
	expire := func(name, path string, httpOnly bool) {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     path,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
			HttpOnly: httpOnly,
			SameSite: http.SameSiteLaxMode,
			Secure:   cfg.Secure,
		})
	}
	expire(accessCookie, "/", true)
	expire(refreshCookie, refreshCookiePath, true)
	expire(csrfCookie, "/", false)
}
