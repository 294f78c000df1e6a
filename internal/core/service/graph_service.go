package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

const (
	DefaultSuggestPool  = 10
	DefaultSuggestLimit = 4
)

// GraphService owns every mutation of the social graph.
type GraphService struct {
	users        ports.UserRepository
	follows      ports.FollowRepository
	sink         ports.NotificationSink
	locker       ports.PairLocker
	suggestPool  int
	suggestLimit int
	log          zerolog.Logger
}

// GraphOption customises a GraphService.
type GraphOption func(*GraphService)

// WithPairLocker serialises toggles of the same pair through l.
func WithPairLocker(l ports.PairLocker) GraphOption {
	return func(s *GraphService) { s.locker = l }
}

// WithSuggestSizes overrides the default sample pool and result sizes.
func WithSuggestSizes(pool, limit int) GraphOption {
	return func(s *GraphService) {
		if pool > 0 {
			s.suggestPool = pool
		}
		if limit > 0 {
			s.suggestLimit = limit
		}
	}
}

func NewGraphService(users ports.UserRepository, follows ports.FollowRepository, sink ports.NotificationSink, log zerolog.Logger, opts ...GraphOption) *GraphService {
	s := &GraphService{
		users:        users,
		follows:      follows,
		sink:         sink,
		suggestPool:  DefaultSuggestPool,
		suggestLimit: DefaultSuggestLimit,
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ToggleFollow makes actorID follow targetID, or unfollow it if it already
// does. The relation store is mutated with a single conditional write, so a
// concurrent toggle of the same pair surfaces as domain.ErrFollowConflict
// instead of a duplicated or half-applied edge. Counts are read after the
// write. A new follow emits a notification; losing it does not undo the
// follow.
func (s *GraphService) ToggleFollow(ctx context.Context, actorID, targetID string) (*domain.FollowResult, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("toggle follow: actor: %w", err)
	}
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("toggle follow: target: %w", err)
	}
	if actor.ID == target.ID {
		return nil, domain.ErrSelfFollow
	}

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, actor.ID, target.ID)
		if err != nil {
			return nil, fmt.Errorf("toggle follow: %w", err)
		}
		defer release()
	}

	following, err := s.follows.IsFollowing(ctx, actor.ID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle follow: read state: %w", err)
	}

	if following {
		err = s.follows.Unfollow(ctx, actor.ID, target.ID)
	} else {
		err = s.follows.Follow(ctx, actor.ID, target.ID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrFollowConflict) {
			s.log.Debug().Str("actor", actor.ID).Str("target", target.ID).Msg("follow toggle lost a race")
		}
		return nil, fmt.Errorf("toggle follow: %w", err)
	}

	followers, err := s.follows.CountFollowers(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle follow: count followers: %w", err)
	}
	followingCount, err := s.follows.CountFollowing(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("toggle follow: count following: %w", err)
	}

	if !following && s.sink != nil {
		s.sink.Emit(ctx, domain.Notification{
			From:      actor.ID,
			To:        target.ID,
			Kind:      domain.NotificationFollow,
			CreatedAt: time.Now().UTC(),
		})
	}

	s.log.Info().
		Str("actor", actor.ID).
		Str("target", target.ID).
		Bool("is_following", !following).
		Msg("follow toggled")

	return &domain.FollowResult{
		Username:       target.Username,
		IsFollowing:    !following,
		FollowersCount: followers,
		FollowingCount: followingCount,
	}, nil
}

// Suggest returns users actorID might want to follow: a random sample that
// excludes the actor and everyone it already follows, kept in sample order.
func (s *GraphService) Suggest(ctx context.Context, actorID string, poolSize, resultSize int) ([]*domain.User, error) {
	if poolSize <= 0 {
		poolSize = s.suggestPool
	}
	if resultSize <= 0 {
		resultSize = s.suggestLimit
	}

	following, err := s.follows.Following(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("suggest: load following: %w", err)
	}
	followed := make(map[string]struct{}, len(following))
	for _, id := range following {
		followed[id] = struct{}{}
	}

	sample, err := s.users.Sample(ctx, actorID, poolSize)
	if err != nil {
		return nil, fmt.Errorf("suggest: sample: %w", err)
	}

	out := make([]*domain.User, 0, resultSize)
	for _, u := range sample {
		if len(out) == resultSize {
			break
		}
		if u.ID == actorID {
			continue
		}
		if _, ok := followed[u.ID]; ok {
			continue
		}
		out = append(out, u.Public())
	}
	return out, nil
}
