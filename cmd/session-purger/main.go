package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	authpostgres "github.com/Apurer/laundry-backoffice/internal/domains/auth/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/laundry-backoffice/internal/platform/postgres"
)

func main() {
	_ = godotenv.Load()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.MaybeConnect(ctx, os.Getenv("POSTGRES_DSN"), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	store := authpostgres.NewSessionStore(db)
	if err := store.PurgeExpired(ctx, sessionTimeoutFromEnv()); err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	log.Printf("session purge completed")
}

func sessionTimeoutFromEnv() time.Duration {
	raw := strings.TrimSpace(os.Getenv("SESSION_TIMEOUT_SECONDS"))
	if raw == "" {
		return time.Hour
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return time.Hour
	}
	return time.Duration(seconds) * time.Second
}
