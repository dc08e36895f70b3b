package domain

// RefreshRecord is the server-side registration of one issued refresh token.
// PK: token_id (the jti embedded in the signed token, never the raw token).
// A refresh token is valid iff its record still exists, expires_at is in the
// future, and the record's email matches the token's claimed subject.
// ExpiresAt is a Unix timestamp used as DynamoDB TTL.
type RefreshRecord struct {
	TokenID   string `json:"token_id" dynamodbav:"token_id"`
	Email     string `json:"email" dynamodbav:"email"`
	ExpiresAt int64  `json:"expires_at" dynamodbav:"expires_at"`
}
