package domain

// FollowResult is the outcome of a follow toggle, with counts taken after the
// mutation was applied.
type FollowResult struct {
	Username       string `json:"-"`
	IsFollowing    bool   `json:"isFollowing"`
	FollowersCount int64  `json:"followersCount"`
	FollowingCount int64  `json:"followingCount"`
}
