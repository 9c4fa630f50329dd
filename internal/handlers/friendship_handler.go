package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
	"github.com/anonto42/eventmatch/backend/internal/validators"
)

var friendshipKeys = pagination.KeysFor("friendships")

// FriendshipHandler handles HTTP requests related to friendships
type FriendshipHandler struct {
	friendshipRepository   repositories.FriendshipRepository
	notificationRepository repositories.NotificationRepository
}

// NewFriendshipHandler creates a new FriendshipHandler
func NewFriendshipHandler(friendshipRepo repositories.FriendshipRepository, notifRepo repositories.NotificationRepository) *FriendshipHandler {
	return &FriendshipHandler{
		friendshipRepository:   friendshipRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterFriendshipRoutes registers friendship routes; g must be
// authenticated. The :id of a single friendship is the counterpart's user
// id, or its auth uid on GET.
func (h *FriendshipHandler) RegisterFriendshipRoutes(g *echo.Group) {
	g.GET("", h.GetFriends)
	g.POST("", h.SendInvitation)
	g.GET("/search", h.SearchFriends)
	g.GET("/invitations", h.GetInvitations)
	g.GET("/:id", h.GetFriendship)
	g.PATCH("/:id", h.UpdateFriendship)
	g.DELETE("/:id", h.DeleteFriendship)
}

func (h *FriendshipHandler) list(c echo.Context, handle func(string) string, statuses ...models.FriendshipStatus) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var q models.FriendshipsQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.friendshipRepository.List(c.Request().Context(), me.ID, handle(q.FriendUserName),
		pagination.NewPlan(q.Limit, q.Cursor), statuses...)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(friendshipKeys))
}

// GetFriends lists the viewer's accepted friendships, newest first.
func (h *FriendshipHandler) GetFriends(c echo.Context) error {
	return h.list(c, validators.NormalizeHandle)
}

// SearchFriends lists accepted friendships whose friend's handle starts
// with friendUserName.
func (h *FriendshipHandler) SearchFriends(c echo.Context) error {
	return h.list(c, validators.SearchHandle)
}

// GetInvitations lists the viewer's pending friendships in both directions.
func (h *FriendshipHandler) GetInvitations(c echo.Context) error {
	return h.list(c, validators.NormalizeHandle, models.FriendshipPending)
}

// GetFriendship returns the accepted friendship with the user whose auth
// uid is :id.
func (h *FriendshipHandler) GetFriendship(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	view, err := h.friendshipRepository.AcceptedWith(c.Request().Context(), me.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// SendInvitation creates a pending friendship from the viewer to the user id
// in the body.
func (h *FriendshipHandler) SendInvitation(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var req models.SendFriendshipRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	friendship, err := h.friendshipRepository.Send(ctx, me.ID, req.ID)
	if err != nil {
		return err
	}
	h.notify(ctx, models.NotificationFriendshipInvitation, me, req.ID, friendship.ID, me.Username+" sent you a friendship invitation")
	return c.JSON(http.StatusCreated, friendship)
}

// UpdateFriendship accepts the invitation from :id (status ACCEPTED) or
// resets the friendship with :id to pending (status PENDING).
func (h *FriendshipHandler) UpdateFriendship(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	targetID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req models.UpdateFriendshipRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	var friendship *models.Friendship
	switch req.Status {
	case models.FriendshipAccepted:
		friendship, err = h.friendshipRepository.Accept(ctx, me.ID, targetID)
		if err == nil {
			h.notify(ctx, models.NotificationFriendshipAccepted, me, targetID, friendship.ID, me.Username+" accepted your friendship invitation")
		}
	case models.FriendshipPending:
		friendship, err = h.friendshipRepository.Reset(ctx, me.ID, targetID)
	default:
		return validators.NewIssue("status", "oneof", "status must be ACCEPTED or PENDING")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, friendship)
}

// DeleteFriendship removes the friendship with :id whatever its status.
func (h *FriendshipHandler) DeleteFriendship(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	targetID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.friendshipRepository.Delete(c.Request().Context(), me.ID, targetID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// notify records a notification for recipientID. Failures are logged and
// do not fail the request.
func (h *FriendshipHandler) notify(ctx context.Context, typ models.NotificationType, actor *models.User, recipientID, friendshipID uint, message string) {
	if h.notificationRepository == nil {
		return
	}
	n := &models.Notification{
		Type:         typ,
		ActorID:      actor.ID,
		RecipientID:  recipientID,
		FriendshipID: friendshipID,
		Message:      message,
	}
	if err := h.notificationRepository.CreateNotification(ctx, n); err != nil {
		slog.Warn("create notification failed", "type", typ, "recipient_id", recipientID, "error", err)
	}
}
