package ports

import (
	"context"
)

// FollowRepository stores the follow relation as one record per
// (follower, followee) pair. Follower and following sets and their counts are
// derived from it, so the two sides can never disagree.
type FollowRepository interface {
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	// Follow inserts the edge. It returns domain.ErrFollowConflict if the edge
	// already exists.
	Follow(ctx context.Context, followerID, followeeID string) error
	// Unfollow deletes the edge. It returns domain.ErrFollowConflict if there
	// was no edge to delete.
	Unfollow(ctx context.Context, followerID, followeeID string) error
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	Followers(ctx context.Context, userID string) ([]string, error)
	Following(ctx context.Context, userID string) ([]string, error)
}
