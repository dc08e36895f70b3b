package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/medexpress/auth-api/internal/domain"
	"github.com/medexpress/auth-api/internal/infrastructure/smtp"
	"github.com/medexpress/auth-api/internal/ratelimit"
)

type SendCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// TokenPair is everything a successful authentication hands back to the
// transport layer: the two credentials plus the non-secret anti-forgery
// token the front end echoes on state-changing calls.
type TokenPair struct {
	Access  string
	Refresh string
	CSRF    string
}

// CodeStore issues and redeems one-time verification codes.
type CodeStore interface {
	Issue(ctx context.Context, email string) (string, error)
	Consume(ctx context.Context, email, code string) (bool, error)
}

// TokenIssuer signs credentials and owns the refresh registry.
type TokenIssuer interface {
	IssueAccess(email string) (string, error)
	IssueRefresh(ctx context.Context, email string) (string, error)
	ValidateAccess(token string) (string, error)
	ValidateRefresh(ctx context.Context, token string) (*domain.RefreshRecord, error)
	Revoke(ctx context.Context, tokenID string) error
	ParseTokenID(token string) (string, error)
}

type Service interface {
	// SendCode issues a verification code for email and mails it.
	// demoCode is empty unless the demo affordance is enabled in config.
	SendCode(ctx context.Context, email string) (demoCode string, err error)
	VerifyCode(ctx context.Context, email, code string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string)
	WhoAmI(accessToken string) (string, error)
}

// ServiceDeps wires the service's collaborators and tuning knobs.
type ServiceDeps struct {
	Codes   CodeStore
	Tokens  TokenIssuer
	Limiter ratelimit.Limiter
	Mailer  smtp.Mailer

	SendCodeLimit   int
	VerifyCodeLimit int
	RateWindow      time.Duration
	ExposeDemoCode  bool
}

type service struct {
	deps ServiceDeps
}

func NewService(deps ServiceDeps) Service {
	return &service{deps: deps}
}

func (s *service) SendCode(ctx context.Context, email string) (string, error) {
	ok, err := s.deps.Limiter.Allow(ctx, "send:"+email, s.deps.SendCodeLimit, s.deps.RateWindow)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("send-code throttled for %s: %w", email, domain.ErrRateLimited)
	}

	code, err := s.deps.Codes.Issue(ctx, email)
	if err != nil {
		return "", err
	}

	// Best-effort delivery. Issuance is already complete; a user who never
	// receives the mail just requests a new code, which supersedes this one.
	text := fmt.Sprintf("Your code: %s (valid 15 minutes)", code)
	html := fmt.Sprintf("<p>Your code: <b>%s</b></p><p>Valid 15 minutes.</p>", code)
	if err := s.deps.Mailer.SendEmail(email, "Your MedExpress verification code", text, html); err != nil {
		slog.Warn("verification mail delivery failed", "email", email, "err", err)
	}

	if s.deps.ExposeDemoCode {
		return code, nil
	}
	return "", nil
}

func (s *service) VerifyCode(ctx context.Context, email, code string) (*TokenPair, error) {
	ok, err := s.deps.Limiter.Allow(ctx, "verify:"+email, s.deps.VerifyCodeLimit, s.deps.RateWindow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("verify throttled for %s: %w", email, domain.ErrRateLimited)
	}

	ok, err = s.deps.Codes.Consume(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Missing, wrong and expired all look the same to the caller.
		return nil, fmt.Errorf("code verification failed: %w", domain.ErrUnauthorized)
	}
	return s.issuePair(ctx, email)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	rec, err := s.deps.Tokens.ValidateRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	// The old record is already consumed; issuing the new pair completes
	// the rotation.
	return s.issuePair(ctx, rec.Email)
}

// Logout revokes the refresh record if the presented token is usable.
// A missing or garbage token is not an error: the transport layer clears
// the client-side artifacts either way.
func (s *service) Logout(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	tokenID, err := s.deps.Tokens.ParseTokenID(refreshToken)
	if err != nil {
		return
	}
	if err := s.deps.Tokens.Revoke(ctx, tokenID); err != nil {
		slog.Warn("refresh token revocation failed", "token_id", tokenID, "err", err)
	}
}

func (s *service) WhoAmI(accessToken string) (string, error) {
	return s.deps.Tokens.ValidateAccess(accessToken)
}

func (s *service) issuePair(ctx context.Context, email string) (*TokenPair, error) {
	access, err := s.deps.Tokens.IssueAccess(email)
	if err != nil {
		return nil, err
	}
	refresh, err := s.deps.Tokens.IssueRefresh(ctx, email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		Access:  access,
		Refresh: refresh,
		CSRF:    uuid.NewString(),
	}, nil
}
