package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// UserRepository persists user records. Uniqueness of username and email is
// enforced by the store itself, so Create and the update methods report
// domain.ErrUsernameTaken / domain.ErrEmailTaken on collision.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)
	UpdateEmail(ctx context.Context, id, email string) (*domain.User, error)
	// UpdatePasswordHash swaps the stored hash only if it still equals oldHash,
	// returning domain.ErrInvalidCredentials otherwise.
	UpdatePasswordHash(ctx context.Context, id, oldHash, newHash string) error
	// Sample returns up to size users chosen at random, never including excludeID.
	Sample(ctx context.Context, excludeID string, size int) ([]*domain.User, error)
}
