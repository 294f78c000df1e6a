package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/core/domain"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "jwt"

const userContextKey = "user"

// SessionVerifier resolves a session token to the identity it was issued for.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*domain.User, error)
}

// Auth rejects requests without a valid session and stores the resolved user
// in the echo context. The token is read from the session cookie first, then
// from an "Authorization: Bearer" header.
func Auth(verifier SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return domain.ErrUnauthenticated
			}

			user, err := verifier.VerifySession(c.Request().Context(), token)
			if err != nil {
				return err
			}
			if user == nil {
				return domain.ErrUnauthenticated
			}

			SetUser(c, user)
			return next(c)
		}
	}
}

// SetUser stores the authenticated user in the echo context.
func SetUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}

// CurrentUser returns the user stored by Auth.
func CurrentUser(c echo.Context) (*domain.User, bool) {
	u, ok := c.Get(userContextKey).(*domain.User)
	return u, ok && u != nil
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
