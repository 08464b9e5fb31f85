package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		FeedCacheTTL: time.Minute,
		ObjectStore:  config.ObjectStoreConfig{Bucket: "test-bucket", Endpoint: "http://localhost:9000", Region: "us-east-1"},
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	issuer, err := auth.NewTokenIssuer("test-secret", 30*24*time.Hour)
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg, issuer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Users == nil {
		t.Fatal("expected user repository to be configured")
	}
	if deps.Videos == nil {
		t.Fatal("expected video repository to be configured")
	}
	if deps.Auth == nil {
		t.Fatal("expected authenticator to be configured")
	}
	if deps.Sessions == nil {
		t.Fatal("expected session issuer to be configured")
	}
	if deps.Feed == nil {
		t.Fatal("expected feed cache to be configured")
	}
	if deps.Storage == nil {
		t.Fatal("expected asset storage to be configured")
	}
	if deps.LoginLimiter == nil {
		t.Fatal("expected login rate limiter to be configured")
	}
}

func TestBuildDependenciesWithoutObjectStore(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("test-secret", 30*24*time.Hour)
	if err != nil {
		t.Fatalf("new token issuer: %v", err)
	}

	deps, err := buildDependencies(context.Background(), fakePool{}, config.Config{}, issuer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Storage != nil {
		t.Fatal("expected storage to be absent when no bucket is configured")
	}
}
