package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/medexpress/auth-api/internal/application/auth"
	"github.com/medexpress/auth-api/internal/config"
	"github.com/medexpress/auth-api/internal/transport/http/handler"
	appmiddleware "github.com/medexpress/auth-api/internal/transport/http/middleware"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	// Cookies only flow cross-origin with credentials, so the allowed
	// origin list must be explicit, never a wildcard.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authSvc := auth.NewService(auth.ServiceDeps{
		Codes:           deps.Codes,
		Tokens:          deps.Tokens,
		Limiter:         deps.Limiter,
		Mailer:          deps.Mailer,
		SendCodeLimit:   cfg.SendCodeLimit,
		VerifyCodeLimit: cfg.VerifyCodeLimit,
		RateWindow:      cfg.RateWindow,
		ExposeDemoCode:  cfg.ExposeDemoCode,
	})

	cookieCfg := handler.CookieConfig{
		AccessTTL:  cfg.AccessTTL,
		RefreshTTL: cfg.RefreshTTL,
		Secure:     cfg.AppEnv == "production",
	}

	authH := handler.NewAuthHandler(authSvc, cookieCfg)
	healthH := handler.NewHealthHandler()
	authMw := appmiddleware.Auth(deps.Tokens)

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Post("/health-check/{action}", healthH.Ping)

		r.Route("/auth", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/send-code", authH.SendCode)
			r.With(sensitiveRL.Limit).Post("/verify", authH.Verify)
			r.Post("/refresh", authH.Refresh)
			r.Post("/logout", authH.Logout)
		})

		r.With(authMw).Get("/me", authH.Me)
	})

	return r
}
