package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// AuthService implements registration, login, session verification and
// password changes.
type AuthService struct {
	users    ports.UserRepository
	follows  ports.FollowRepository
	sessions ports.SessionService
	cost     int
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, follows ports.FollowRepository, sessions ports.SessionService, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		follows:  follows,
		sessions: sessions,
		cost:     bcrypt.DefaultCost,
		log:      log,
	}
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Register creates a new account and opens a session for it. Uniqueness is
// decided by the store at insert time, so two concurrent registrations of the
// same username yield exactly one success.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, domain.Session, error) {
	username := strings.TrimSpace(in.Username)
	fullName := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)

	if username == "" {
		return nil, domain.Session{}, domain.NewValidationError("username", "Username is required")
	}
	if fullName == "" {
		return nil, domain.Session{}, domain.NewValidationError("fullName", "Full name is required")
	}
	if email == "" {
		return nil, domain.Session{}, domain.NewValidationError("email", "Email is required")
	}
	if err := domain.ValidatePasswordStrength(in.Password); err != nil {
		return nil, domain.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, domain.Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Username:     username,
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		Followers:    []string{},
		Following:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, domain.Session{}, err
	}

	session, err := s.sessions.Issue(created.ID)
	if err != nil {
		return nil, domain.Session{}, err
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created.Public(), session, nil
}

// Authenticate checks the credentials and opens a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.Session{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Session{}, domain.ErrInvalidCredentials
		}
		return nil, domain.Session{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.Session{}, domain.ErrInvalidCredentials
	}

	session, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, domain.Session{}, err
	}

	out, err := hydrate(ctx, s.follows, user)
	if err != nil {
		return nil, domain.Session{}, err
	}
	return out, session, nil
}

// VerifySession resolves a token to the public view of its user. Every
// failure to do so, including a user deleted after the token was issued, is
// reported as domain.ErrUnauthenticated.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*domain.User, error) {
	userID, err := s.sessions.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
		}
		return nil, err
	}

	return hydrate(ctx, s.follows, user)
}

// ChangePassword replaces the password of userID after re-verifying the
// current one. The stored hash is only swapped if it did not change in the
// meantime.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return domain.NewValidationError("newPassword", "Please provide both current and new password")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnauthenticated
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePasswordHash(ctx, userID, user.PasswordHash, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
