package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/clipstream/backend/internal/models"
	"github.com/clipstream/backend/internal/repositories"
)

// CredentialStore captures the single read the service performs while
// verifying a login.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// Service verifies presented credentials against the user store. It performs
// no writes; token issuance is handled by the TokenIssuer.
type Service struct {
	users CredentialStore
}

// NewService constructs a credential verification service.
func NewService(users CredentialStore) *Service {
	if users == nil {
		panic("auth: credential store must not be nil")
	}
	return &Service{users: users}
}

// Authenticate checks the email/password pair and returns the identity to
// embed in a session token. The email must match exactly as stored.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Identity, error) {
	if email == "" || password == "" {
		return Identity{}, ErrMissingCredential
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return Identity{}, ErrUserNotFound
		}
		return Identity{}, fmt.Errorf("find user by email: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Identity{}, ErrInvalidPassword
	}

	return Identity{ID: user.ID, Email: user.Email}, nil
}
