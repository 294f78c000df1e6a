package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/api/metrics"
	"github.com/chirpnet/social-api/internal/api/middleware"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

type UserHandler struct {
	profiles ports.ProfileService
	graph    ports.GraphService
	auth     ports.AuthService
}

func NewUserHandler(profiles ports.ProfileService, graph ports.GraphService, auth ports.AuthService) *UserHandler {
	return &UserHandler{profiles: profiles, graph: graph, auth: auth}
}

// GetProfile returns a user's public profile by username.
//
// @Summary      Get user profile
// @Tags         users
// @Produce      json
// @Param        username  path      string  true  "Username"
// @Success      200       {object}  domain.User
// @Failure      401       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/profile/{username} [get]
func (h *UserHandler) GetProfile(c echo.Context) error {
	viewer, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	user, err := h.profiles.GetProfile(c.Request().Context(), c.Param("username"))
	if err != nil {
		return err
	}
	if user.ID != viewer.ID {
		user.Email = ""
	}
	return c.JSON(http.StatusOK, user)
}

// Suggested returns a few random users the caller does not follow yet.
//
// @Summary      Suggested users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.User
// @Failure      401  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/suggested [get]
func (h *UserHandler) Suggested(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	users, err := h.graph.Suggest(c.Request().Context(), me.ID, 0, 0)
	if err != nil {
		return err
	}
	for _, u := range users {
		u.Email = ""
	}
	return c.JSON(http.StatusOK, users)
}

// ToggleFollow follows the target user, or unfollows them if already followed.
//
// @Summary      Follow or unfollow a user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "Target user id"
// @Success      200  {object}  followResponse  "unfollowed"
// @Success      201  {object}  followResponse  "followed"
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/follow/{id} [post]
func (h *UserHandler) ToggleFollow(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	req := followRequest{ID: c.Param("id")}
	if err := c.Validate(&req); err != nil {
		return err
	}

	res, err := h.graph.ToggleFollow(c.Request().Context(), me.ID, req.ID)
	if err != nil {
		metrics.FollowTogglesTotal.WithLabelValues(toggleFailure(err)).Inc()
		return err
	}

	status, message, result := http.StatusOK, "Unfollowed "+res.Username, "unfollow"
	if res.IsFollowing {
		status, message, result = http.StatusCreated, "Now following "+res.Username, "follow"
	}
	metrics.FollowTogglesTotal.WithLabelValues(result).Inc()

	return c.JSON(status, followResponse{
		Message:        message,
		IsFollowing:    res.IsFollowing,
		FollowersCount: res.FollowersCount,
		FollowingCount: res.FollowingCount,
	})
}

// UpdateProfile changes the caller's name, username, bio or link.
//
// @Summary      Update profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateProfileRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/profile [patch]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.profiles.UpdateProfile(c.Request().Context(), me.ID, req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateEmail changes the caller's email address.
//
// @Summary      Update email
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updateEmailRequest  true  "New email"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/email [patch]
func (h *UserHandler) UpdateEmail(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req updateEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.profiles.UpdateEmail(c.Request().Context(), me.ID, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdatePassword replaces the caller's password after re-checking the current one.
//
// @Summary      Update password
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      updatePasswordRequest  true  "Current and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  map[string]string
// @Security     BearerAuth
// @Router       /users/password [patch]
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var req updatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err := h.auth.ChangePassword(c.Request().Context(), me.ID, req.CurrentPassword, req.NewPassword)
	recordAuth("change_password", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated successfully"})
}

func toggleFailure(err error) string {
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		return "not_found"
	case domain.KindConflict:
		if errors.Is(err, domain.ErrSelfFollow) {
			return "self"
		}
		return "conflict"
	default:
		return "error"
	}
}
