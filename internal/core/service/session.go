package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// sessionClaims binds a token to a user id through the standard subject claim.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// SessionService issues and verifies HS256 session tokens. Tokens are
// stateless: there is no revocation list, validity depends only on the
// signature and the expiry.
type SessionService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(secret string) *SessionService {
	return &SessionService{
		secret: []byte(secret),
		ttl:    domain.SessionTTL,
		now:    time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

func (s *SessionService) TTL() time.Duration { return s.ttl }

// Issue signs a token for userID that expires SessionTTL from now.
func (s *SessionService) Issue(userID string) (domain.Session, error) {
	if userID == "" {
		return domain.Session{}, errors.New("issue session: empty user id")
	}

	now := s.now().UTC()
	expiresAt := now.Add(s.ttl)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return domain.Session{}, fmt.Errorf("issue session: %w", err)
	}
	return domain.Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify returns the user id bound to token, or domain.ErrInvalidToken when
// the token is malformed, signed with another key or algorithm, or expired.
func (s *SessionService) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}

	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}
