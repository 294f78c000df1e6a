package service

import (
	"context"
	"fmt"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

// hydrate fills the derived follower and following sets of u from the
// relation store and returns the public view.
func hydrate(ctx context.Context, follows ports.FollowRepository, u *domain.User) (*domain.User, error) {
	followers, err := follows.Followers(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load followers: %w", err)
	}
	following, err := follows.Following(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load following: %w", err)
	}

	out := u.Public()
	out.Followers = append([]string{}, followers...)
	out.Following = append([]string{}, following...)
	return out, nil
}
