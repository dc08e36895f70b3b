package token

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/medexpress/auth-api/internal/domain"
	"github.com/medexpress/auth-api/internal/pkg/id"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims holds the JWT payload fields. Subject carries the email, ID the
// refresh-token identifier (empty on access tokens).
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshRegistry is the server-side record store the issuer needs.
// Consume must atomically remove and return the record for a token ID.
type RefreshRegistry interface {
	Put(ctx context.Context, rec *domain.RefreshRecord) error
	Consume(ctx context.Context, tokenID string) (*domain.RefreshRecord, error)
	Delete(ctx context.Context, tokenID string) error
}

// Issuer signs and verifies HS256 JWTs and maintains the refresh registry.
// Access tokens are stateless: a stolen one stays valid until its expiry,
// which is why the access TTL is short.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	registry   RefreshRegistry
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration, registry RefreshRegistry) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		registry:   registry,
		now:        time.Now,
	}
}

// IssueAccess signs a short-lived stateless access token for email.
func (i *Issuer) IssueAccess(email string) (string, error) {
	return i.sign(email, TypeAccess, "", i.accessTTL)
}

// IssueRefresh registers a fresh RefreshRecord under a new token ID and
// signs a long-lived token embedding it.
func (i *Issuer) IssueRefresh(ctx context.Context, email string) (string, error) {
	tokenID := id.New()
	rec := &domain.RefreshRecord{
		TokenID:   tokenID,
		Email:     email,
		ExpiresAt: i.now().Add(i.refreshTTL).Unix(),
	}
	if err := i.registry.Put(ctx, rec); err != nil {
		return "", fmt.Errorf("register refresh token: %w", err)
	}
	return i.sign(email, TypeRefresh, tokenID, i.refreshTTL)
}

// ValidateAccess verifies signature, expiry and type, returning the subject
// email. Access tokens have no server-side record to check.
func (i *Issuer) ValidateAccess(tokenStr string) (string, error) {
	claims, err := i.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Type != TypeAccess {
		return "", fmt.Errorf("not an access token: %w", domain.ErrUnauthorized)
	}
	return claims.Subject, nil
}

// ValidateRefresh verifies signature, expiry and type, then consumes the
// embedded token ID from the registry. The consumed record is only accepted
// when it is unexpired and owned by the token's subject. Consuming up front
// means a token that reaches the registry can never be presented twice,
// whatever the outcome.
func (i *Issuer) ValidateRefresh(ctx context.Context, tokenStr string) (*domain.RefreshRecord, error) {
	claims, err := i.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Type != TypeRefresh || claims.ID == "" {
		return nil, fmt.Errorf("not a refresh token: %w", domain.ErrUnauthorized)
	}
	rec, err := i.registry.Consume(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("refresh token revoked or already used: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}
	if rec.ExpiresAt < i.now().Unix() {
		return nil, fmt.Errorf("refresh token expired: %w", domain.ErrUnauthorized)
	}
	if rec.Email != claims.Subject {
		return nil, fmt.Errorf("refresh token subject mismatch: %w", domain.ErrUnauthorized)
	}
	return rec, nil
}

// Revoke drops the registry record for tokenID. Idempotent.
func (i *Issuer) Revoke(ctx context.Context, tokenID string) error {
	return i.registry.Delete(ctx, tokenID)
}

// ParseTokenID extracts the token ID from a refresh token without touching
// the registry. Used by logout, where an invalid token is not an error.
func (i *Issuer) ParseTokenID(tokenStr string) (string, error) {
	claims, err := i.parse(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Type != TypeRefresh || claims.ID == "" {
		return "", fmt.Errorf("not a refresh token: %w", domain.ErrUnauthorized)
	}
	return claims.ID, nil
}

func (i *Issuer) sign(email, typ, tokenID string, ttl time.Duration) (string, error) {
	now := i.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (i *Issuer) parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", domain.ErrUnauthorized)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}
	return claims, nil
}
