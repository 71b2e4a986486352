package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/plans-system/internal/core/domain"
	"github.com/99minutos/plans-system/internal/core/ports"
)

// NotificationLister is the read side of the notification service.
type NotificationLister interface {
	ListFor(ctx context.Context, actor ports.Actor) ([]domain.NotificationView, error)
}

type NotificationHandler struct {
	service NotificationLister
}

func NewNotificationHandler(service NotificationLister) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /v1/notifications.
//
// @Summary      List the caller's notifications
// @Description  Oldest first, with source and target resolved to names.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.NotificationView
// @Failure      401  {object}  errorBody
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	views, err := h.service.ListFor(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	if views == nil {
		views = []domain.NotificationView{}
	}
	return c.JSON(http.StatusOK, views)
}
