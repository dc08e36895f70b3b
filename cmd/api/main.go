package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/medexpress/auth-api/internal/application/auth"
	"github.com/medexpress/auth-api/internal/config"
	"github.com/medexpress/auth-api/internal/infrastructure/dynamo"
	"github.com/medexpress/auth-api/internal/infrastructure/memstore"
	"github.com/medexpress/auth-api/internal/infrastructure/smtp"
	"github.com/medexpress/auth-api/internal/infrastructure/token"
	"github.com/medexpress/auth-api/internal/ratelimit"
	transporthttp "github.com/medexpress/auth-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Stores: in-memory by default, DynamoDB when configured. Both sides of
	// each interface give the same atomic consume guarantees.
	var codes auth.CodeStore
	var registry token.RefreshRegistry
	if cfg.StoreBackend == "dynamo" {
		client := dynamo.NewClient(cfg)
		dynamo.Bootstrap(context.Background(), client, cfg.DynamoTables)
		codes = dynamo.NewCodeRepo(client, cfg.DynamoTables.PendingCodes, cfg.CodeTTL)
		registry = dynamo.NewRefreshRepo(client, cfg.DynamoTables.RefreshTokens)
	} else {
		codes = memstore.NewCodeStore(cfg.CodeTTL)
		registry = memstore.NewRefreshStore()
	}

	var limiter ratelimit.Limiter
	if cfg.RedisAddr != "" {
		limiter = ratelimit.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		limiter = ratelimit.NewMemoryLimiter()
	}

	deps := &transporthttp.Deps{
		Codes:   codes,
		Tokens:  token.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, registry),
		Limiter: limiter,
		Mailer:  smtp.NewMailer(cfg),
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Auth server listening on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
