package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
)

var notificationKeys = pagination.KeysFor("notifications")

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("", h.GetNotifications)
	g.GET("/unread-count", h.GetUnreadCount)
	g.PUT("/read-all", h.MarkAllAsRead)
	g.PUT("/:id/read", h.MarkAsRead)
}

// GetNotifications returns the viewer's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var q models.PageQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.notificationRepository.GetByRecipientID(c.Request().Context(), me.ID, pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(notificationKeys))
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), me.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the viewer's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.notificationRepository.MarkAsRead(c.Request().Context(), id, me.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkAllAsRead marks all notifications as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	if err := h.notificationRepository.MarkAllAsRead(c.Request().Context(), me.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
