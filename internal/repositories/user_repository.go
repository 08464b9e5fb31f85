package repositories

import (
	"context"

	"github.com/clipstream/backend/internal/models"
)

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	// UpdatePassword swaps the stored hash only when currentHash still matches,
	// so a concurrent change loses cleanly instead of being overwritten.
	UpdatePassword(ctx context.Context, id, currentHash, newHash string) error
	Delete(ctx context.Context, id string) error
}
