package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/api/middleware"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, domain.Session, error)
	authenticateFn   func(ctx context.Context, email, password string) (*domain.User, domain.Session, error)
	changePasswordFn func(ctx context.Context, userID, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, domain.Session, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, domain.Session, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *stubAuthService) VerifySession(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrUnauthenticated
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return s.changePasswordFn(ctx, userID, current, next)
}

type stubProfileService struct {
	getFn         func(ctx context.Context, username string) (*domain.User, error)
	updateFn      func(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.User, error)
	updateEmailFn func(ctx context.Context, userID, email string) (*domain.User, error)
}

func (s *stubProfileService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	return s.getFn(ctx, username)
}

func (s *stubProfileService) UpdateProfile(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.User, error) {
	return s.updateFn(ctx, userID, u)
}

func (s *stubProfileService) UpdateEmail(ctx context.Context, userID, email string) (*domain.User, error) {
	return s.updateEmailFn(ctx, userID, email)
}

type stubGraphService struct {
	toggleFn  func(ctx context.Context, actorID, targetID string) (*domain.FollowResult, error)
	suggestFn func(ctx context.Context, actorID string, pool, limit int) ([]*domain.User, error)
}

func (s *stubGraphService) ToggleFollow(ctx context.Context, actorID, targetID string) (*domain.FollowResult, error) {
	return s.toggleFn(ctx, actorID, targetID)
}

func (s *stubGraphService) Suggest(ctx context.Context, actorID string, pool, limit int) ([]*domain.User, error) {
	return s.suggestFn(ctx, actorID, pool, limit)
}

type stubNotificationService struct {
	listFn func(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error)
}

func (s *stubNotificationService) List(ctx context.Context, recipientID string, limit int) ([]*domain.Notification, error) {
	return s.listFn(ctx, recipientID, limit)
}

var (
	alice = &domain.User{ID: "64b7f0c2a1b2c3d4e5f60001", Username: "alice", Email: "alice@example.com"}
	bob   = &domain.User{ID: "64b7f0c2a1b2c3d4e5f60002", Username: "bob", Email: "bob@example.com"}
)

func testSession() domain.Session {
	return domain.Session{Token: "signed.jwt.token", ExpiresAt: time.Now().Add(domain.SessionTTL)}
}

// newContext builds an echo context with the validator installed and, when
// user is not nil, the identity the auth gate would have stored.
func newContext(method, target string, body io.Reader, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.SetUser(c, user)
	}
	return c, rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}
