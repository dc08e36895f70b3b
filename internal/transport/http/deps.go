package http

import (
	"github.com/medexpress/auth-api/internal/application/auth"
	"github.com/medexpress/auth-api/internal/infrastructure/smtp"
	"github.com/medexpress/auth-api/internal/ratelimit"
)

// Deps holds the composed dependencies the router needs. Stores and limiter
// are interfaces so memory, DynamoDB and Redis backends slot in without
// touching the transport layer.
type Deps struct {
	Codes   auth.CodeStore
	Tokens  auth.TokenIssuer
	Limiter ratelimit.Limiter
	Mailer  smtp.Mailer
}
