package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AllowedOrigin string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	CodeTTL         time.Duration
	SendCodeLimit   int
	VerifyCodeLimit int
	RateWindow      time.Duration

	// ExposeDemoCode echoes the raw verification code in the send-code
	// response. Demo/test affordance only; must stay off in production.
	ExposeDemoCode bool

	SMTPHost   string
	SMTPPort   string
	SMTPSecure bool
	SMTPFrom   string
	SMTPUser   string
	SMTPPass   string

	StoreBackend   string // "memory" | "dynamo"
	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	RedisAddr string // empty disables the Redis rate limiter backend
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	PendingCodes  string
	RefreshTokens string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "3001"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),

		JWTSecret:  getEnv("JWT_SECRET", "dev_secret"),
		AccessTTL:  time.Duration(getEnvInt("ACCESS_TTL_MIN", 15)) * time.Minute,
		RefreshTTL: time.Duration(getEnvInt("REFRESH_TTL_DAYS", 7)) * 24 * time.Hour,

		CodeTTL:         time.Duration(getEnvInt("CODE_TTL_MIN", 15)) * time.Minute,
		SendCodeLimit:   getEnvInt("SEND_CODE_LIMIT", 5),
		VerifyCodeLimit: getEnvInt("VERIFY_CODE_LIMIT", 10),
		RateWindow:      time.Duration(getEnvInt("RATE_WINDOW_MIN", 10)) * time.Minute,

		ExposeDemoCode: getEnvBool("DEMO_EXPOSE_CODE", false),

		SMTPHost:   getEnv("SMTP_HOST", ""),
		SMTPPort:   getEnv("SMTP_PORT", "587"),
		SMTPSecure: getEnvBool("SMTP_SECURE", false),
		SMTPFrom:   getEnv("FROM_EMAIL", "noreply@medexpress.demo"),
		SMTPUser:   getEnv("SMTP_USERNAME", ""),
		SMTPPass:   getEnv("SMTP_PASSWORD", ""),

		StoreBackend:   getEnv("STORE_BACKEND", "memory"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			PendingCodes:  getEnv("DYNAMO_TABLE_PENDING_CODES", "pending_codes"),
			RefreshTokens: getEnv("DYNAMO_TABLE_REFRESH_TOKENS", "refresh_tokens"),
		},

		RedisAddr: getEnv("REDIS_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
