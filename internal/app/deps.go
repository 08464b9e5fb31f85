package app

import (
	"context"
	"fmt"
	"time"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/config"
	"github.com/clipstream/backend/internal/db"
	"github.com/clipstream/backend/internal/handlers"
	"github.com/clipstream/backend/internal/middleware"
	"github.com/clipstream/backend/internal/repositories"
	"github.com/clipstream/backend/internal/storage"
	"github.com/clipstream/backend/internal/videos"
)

// buildDependencies wires together concrete implementations used by the HTTP
// handlers. The token issuer is built by the caller so the session middleware
// can share it.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config, issuer *auth.TokenIssuer) (handlers.Dependencies, error) {
	users := repositories.NewPostgresUserRepository(pool)

	var assets handlers.AssetStorage
	if cfg.ObjectStore.Bucket != "" {
		s3, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
		}
		assets = s3
	}

	return handlers.Dependencies{
		Users:        users,
		Videos:       repositories.NewPostgresVideoRepository(pool),
		Auth:         auth.NewService(users),
		Sessions:     issuer,
		Feed:         videos.NewFeedCache(cfg.FeedCacheTTL),
		Storage:      assets,
		LoginLimiter: middleware.NewIPRateLimiter(10, time.Minute, 5, 10*time.Minute),
	}, nil
}
