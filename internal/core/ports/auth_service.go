package ports

import (
	"context"
	"time"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Password string
}

// SessionService issues and verifies stateless session tokens.
type SessionService interface {
	Issue(userID string) (domain.Session, error)
	Verify(token string) (string, error)
	TTL() time.Duration
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, domain.Session, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, domain.Session, error)
	VerifySession(ctx context.Context, token string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}
