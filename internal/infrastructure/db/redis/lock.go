package redis

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/chirpnet/social-api/internal/core/domain"
)

const defaultLockTTL = 5 * time.Second

// releaseScript deletes the lock only if it still holds our token, so an
// expired lock re-acquired by another caller is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// PairLock serialises follow toggles per unordered user pair across API
// instances.
// Key format: follow-lock:<lower id>:<higher id>
type PairLock struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewPairLock creates a PairLock. A non-positive ttl selects defaultLockTTL.
func NewPairLock(client *redis.Client, ttl time.Duration, log zerolog.Logger) *PairLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &PairLock{client: client, ttl: ttl, log: log}
}

// Acquire takes the lock for the pair or returns domain.ErrFollowConflict if
// it is held elsewhere. The returned release func is safe to call once.
func (l *PairLock) Acquire(ctx context.Context, a, b string) (func(), error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("pair lock: %w", err)
	}

	key := pairKey(a, b)
	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("pair lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrFollowConflict
	}

	return func() {
		// The request context may already be cancelled; release regardless.
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", key).Msg("failed to release pair lock")
		}
	}, nil
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("follow-lock:%s:%s", a, b)
}

func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
