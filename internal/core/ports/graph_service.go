package ports

import (
	"context"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// PairLocker serialises follow mutations for one unordered pair of users
// across processes. Acquire returns domain.ErrFollowConflict when the pair is
// already locked by someone else.
type PairLocker interface {
	Acquire(ctx context.Context, a, b string) (release func(), err error)
}

type GraphService interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (*domain.FollowResult, error)
	// Suggest samples up to poolSize users, drops the ones actorID already
	// follows and returns at most resultSize of the rest. Non-positive sizes
	// fall back to the service defaults.
	Suggest(ctx context.Context, actorID string, poolSize, resultSize int) ([]*domain.User, error)
}

type ProfileService interface {
	GetProfile(ctx context.Context, username string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	UpdateEmail(ctx context.Context, userID, email string) (*domain.User, error)
}
