package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory user repository
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*domain.User
	order  []string
	sample func(ids []string) []string // overrides random sampling when set
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// Create mirrors the unique indexes of the real store.
func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}

	r.seq++
	created := cloneUser(user)
	if created.ID == "" {
		created.ID = fmt.Sprintf("u%03d", r.seq)
	}
	r.byID[created.ID] = created
	r.order = append(r.order, created.ID)
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, upd domain.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if upd.Username != nil {
		for otherID, other := range r.byID {
			if otherID != id && other.Username == *upd.Username {
				return nil, domain.ErrUsernameTaken
			}
		}
		u.Username = *upd.Username
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Bio != nil {
		u.Bio = *upd.Bio
	}
	if upd.Link != nil {
		u.Link = *upd.Link
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateEmail(_ context.Context, id, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for otherID, other := range r.byID {
		if otherID != id && other.Email == email {
			return nil, domain.ErrEmailTaken
		}
	}
	u.Email = email
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id, oldHash, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || u.PasswordHash != oldHash {
		return domain.ErrInvalidCredentials
	}
	u.PasswordHash = newHash
	return nil
}

func (r *stubUserRepo) Sample(_ context.Context, excludeID string, size int) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if id != excludeID {
			ids = append(ids, id)
		}
	}
	if r.sample != nil {
		ids = r.sample(ids)
	} else {
		rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	}
	if len(ids) > size {
		ids = ids[:size]
	}

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneUser(r.byID[id]))
	}
	return out, nil
}

func (r *stubUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
}

// ---------------------------------------------------------------------------
// In-memory follow relation store
// ---------------------------------------------------------------------------

type edge struct{ follower, followee string }

type stubFollowRepo struct {
	mu    sync.Mutex
	edges map[edge]struct{}
	err   error // returned by every call when set
}

func newStubFollowRepo() *stubFollowRepo {
	return &stubFollowRepo{edges: make(map[edge]struct{})}
}

func (r *stubFollowRepo) IsFollowing(_ context.Context, follower, followee string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.edges[edge{follower, followee}]
	return ok, nil
}

func (r *stubFollowRepo) Follow(_ context.Context, follower, followee string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	k := edge{follower, followee}
	if _, ok := r.edges[k]; ok {
		return domain.ErrFollowConflict
	}
	r.edges[k] = struct{}{}
	return nil
}

func (r *stubFollowRepo) Unfollow(_ context.Context, follower, followee string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	k := edge{follower, followee}
	if _, ok := r.edges[k]; !ok {
		return domain.ErrFollowConflict
	}
	delete(r.edges, k)
	return nil
}

func (r *stubFollowRepo) CountFollowers(ctx context.Context, id string) (int64, error) {
	ids, err := r.Followers(ctx, id)
	return int64(len(ids)), err
}

func (r *stubFollowRepo) CountFollowing(ctx context.Context, id string) (int64, error) {
	ids, err := r.Following(ctx, id)
	return int64(len(ids)), err
}

func (r *stubFollowRepo) Followers(_ context.Context, id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []string{}
	for e := range r.edges {
		if e.followee == id {
			out = append(out, e.follower)
		}
	}
	return out, nil
}

func (r *stubFollowRepo) Following(_ context.Context, id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []string{}
	for e := range r.edges {
		if e.follower == id {
			out = append(out, e.followee)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Notification sink and pair locker
// ---------------------------------------------------------------------------

type stubSink struct {
	mu      sync.Mutex
	emitted []domain.Notification
}

func (s *stubSink) Emit(_ context.Context, n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitted = append(s.emitted, n)
}

func (s *stubSink) all() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Notification{}, s.emitted...)
}

type stubLocker struct {
	err      error
	acquired int
	released int
}

func (l *stubLocker) Acquire(_ context.Context, _, _ string) (func(), error) {
	if l.err != nil {
		return nil, l.err
	}
	l.acquired++
	return func() { l.released++ }, nil
}

type stubNotificationRepo struct {
	items     []*domain.Notification
	lastLimit int
}

func (r *stubNotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.items = append(r.items, n)
	return nil
}

func (r *stubNotificationRepo) ListByRecipient(_ context.Context, to string, limit int) ([]*domain.Notification, error) {
	r.lastLimit = limit
	var out []*domain.Notification
	for _, n := range r.items {
		if n.To == to {
			out = append(out, n)
		}
	}
	return out, nil
}
