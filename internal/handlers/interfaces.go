package handlers

import (
	"context"
	"io"
	"time"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/models"
)

// UserStore captures the persistence operations required by the user and auth
// handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	UpdatePassword(ctx context.Context, id, currentHash, newHash string) error
	Delete(ctx context.Context, id string) error
}

// VideoStore captures persistence for video workflows.
type VideoStore interface {
	Create(ctx context.Context, video models.Video) error
	List(ctx context.Context, ownerID string) ([]models.Video, error)
	FindByID(ctx context.Context, id string) (models.Video, error)
	Delete(ctx context.Context, id string) error
}

// Authenticator verifies a credential pair and returns the identity to embed
// in a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (auth.Identity, error)
}

// SessionIssuer mints signed session tokens for authenticated identities.
type SessionIssuer interface {
	Issue(identity auth.Identity) (token string, expiresAt time.Time, err error)
}

// FeedCache holds recently served feed pages keyed by owner filter.
type FeedCache interface {
	Get(ownerID string) ([]models.Video, bool)
	Put(ownerID string, videos []models.Video)
	Invalidate(ownerID string)
}

// AssetStorage persists uploaded media and returns its public location.
type AssetStorage interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}
