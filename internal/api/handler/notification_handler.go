package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chirpnet/social-api/internal/api/middleware"
	"github.com/chirpnet/social-api/internal/core/domain"
	"github.com/chirpnet/social-api/internal/core/ports"
)

type NotificationHandler struct {
	notifications ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's newest notifications.
//
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of notifications (default 20, max 100)"
// @Success      200    {array}   domain.Notification
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Security     BearerAuth
// @Router       /notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	me, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.ErrUnauthenticated
	}

	var limit int
	if err := echo.QueryParamsBinder(c).Int("limit", &limit).BindError(); err != nil {
		return domain.NewValidationError("limit", "limit must be an integer")
	}

	items, err := h.notifications.List(c.Request().Context(), me.ID, limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.Notification{}
	}
	return c.JSON(http.StatusOK, items)
}
