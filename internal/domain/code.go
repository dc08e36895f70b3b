package domain

// PendingCode is the one live verification code for an email address.
// PK: email. A new issuance overwrites any prior pending code, so at most
// one entry exists per email at any time.
// IssuedAt is a Unix timestamp; validity is checked lazily against the code TTL.
type PendingCode struct {
	Email    string `json:"email" dynamodbav:"email"`
	Code     string `json:"code" dynamodbav:"code"`
	IssuedAt int64  `json:"issued_at" dynamodbav:"issued_at"`
}
