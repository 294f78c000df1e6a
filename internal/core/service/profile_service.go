package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// ProfileService reads and edits the non-graph fields of a user.
type ProfileService struct {
	users   ports.UserRepository
	follows ports.FollowRepository
	log     zerolog.Logger
}

func NewProfileService(users ports.UserRepository, follows ports.FollowRepository, log zerolog.Logger) *ProfileService {
	return &ProfileService{users: users, follows: follows, log: log}
}

func (s *ProfileService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	return hydrate(ctx, s.follows, user)
}

// UpdateProfile applies the non-nil fields of update. A username already used
// by someone else is rejected by the store with domain.ErrUsernameTaken.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error) {
	update = trimProfile(update)
	if update.Username != nil && *update.Username == "" {
		return nil, domain.NewValidationError("username", "Username is required")
	}
	if update.FullName != nil && *update.FullName == "" {
		return nil, domain.NewValidationError("fullName", "Full name is required")
	}

	var (
		user *domain.User
		err  error
	)
	if update.Empty() {
		user, err = s.users.FindByID(ctx, userID)
	} else {
		user, err = s.users.UpdateProfile(ctx, userID, update)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("profile updated")
	return hydrate(ctx, s.follows, user)
}

func (s *ProfileService) UpdateEmail(ctx context.Context, userID, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, domain.NewValidationError("email", "Email is required")
	}

	user, err := s.users.UpdateEmail(ctx, userID, email)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", userID).Msg("email updated")
	return hydrate(ctx, s.follows, user)
}

func trimProfile(p domain.ProfileUpdate) domain.ProfileUpdate {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	return domain.ProfileUpdate{
		FullName: trim(p.FullName),
		Username: trim(p.Username),
		Bio:      trim(p.Bio),
		Link:     trim(p.Link),
	}
}
