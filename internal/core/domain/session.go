package domain

import "time"

// SessionTTL is the fixed lifetime of a session token. Tokens are stateless and
// cannot be revoked, so a leaked token stays usable for at most this long.
const SessionTTL = 15 * 24 * time.Hour

// Session is an issued token together with its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}
