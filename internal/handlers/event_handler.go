package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
	"github.com/anonto42/eventmatch/backend/internal/validators"
)

var (
	eventKeys       = pagination.KeysFor("events")
	eventSearchKeys = pagination.Keys{Items: "events", Total: "totalEvents", PerPage: "eventsPerPage", OmitHasNext: true}
	likerKeys       = pagination.Keys{Items: "usersWhoLikedEvent", Total: "totalUsers", PerPage: "usersPerPage"}
)

// EventHandler handles HTTP requests related to events
type EventHandler struct {
	eventRepository repositories.EventRepository
	userRepository  repositories.UserRepository
	images          ImageStore
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventRepo repositories.EventRepository, userRepo repositories.UserRepository, images ImageStore) *EventHandler {
	return &EventHandler{eventRepository: eventRepo, userRepository: userRepo, images: images}
}

// RegisterEventRoutes registers event routes; g must be authenticated.
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.GET("", h.LatestEvents)
	g.POST("", h.CreateEvent)
	g.GET("/search", h.SearchEventsByName)
	g.GET("/liked", h.LikedEvents)
	g.GET("/liked/:id", h.GetEvent)
	g.GET("/liked/:id/users", h.EventLikers)
	g.GET("/liked/matches/:uid", h.MatchedEvents)
	g.POST("/:id/like", h.ToggleLike)
	g.POST("/:id/share", h.ShareEvent)
	g.POST("/:id/photos", h.UploadEventPhotos)
}

// LatestEvents lists events newest first, filtered by name and categories.
func (h *EventHandler) LatestEvents(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var q models.SearchEventsQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	cats, err := validators.ParseCategories(q.Categories)
	if err != nil {
		return err
	}

	page, err := h.eventRepository.SearchLatest(c.Request().Context(), me.ID,
		repositories.EventFilter{Name: q.Name, Categories: cats},
		pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(eventKeys))
}

// SearchEventsByName lists events whose name contains the query.
func (h *EventHandler) SearchEventsByName(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var q models.SearchEventsQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.eventRepository.SearchLatest(c.Request().Context(), me.ID,
		repositories.EventFilter{Name: q.Name},
		pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(eventSearchKeys))
}

// LikedEvents lists a bucket list: the viewer's own, or userId's.
func (h *EventHandler) LikedEvents(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var q models.LikedEventsQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.eventRepository.LikedEvents(c.Request().Context(), me.ID, q.UserID, pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(eventKeys))
}

// GetEvent returns one event with the viewer's like flag.
func (h *EventHandler) GetEvent(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	event, err := h.eventRepository.GetByID(c.Request().Context(), me.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// EventLikers lists the users who liked an event, excluding the viewer and
// the viewer's friends.
func (h *EventHandler) EventLikers(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var q models.PageQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.eventRepository.Likers(c.Request().Context(), me.ID, id, pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(likerKeys))
}

// MatchedEvents lists the events both the viewer and the target liked.
func (h *EventHandler) MatchedEvents(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var q models.LikedEventsQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	ctx := c.Request().Context()
	target, err := h.userRepository.GetUserByUID(ctx, c.Param("uid"))
	if err != nil {
		return err
	}
	page, err := h.eventRepository.Matches(ctx, me.ID, target.ID, q.AllPhotos, pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(eventKeys))
}

// ToggleLike likes an event, or removes the viewer's like when present.
func (h *EventHandler) ToggleLike(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	like, created, err := h.eventRepository.ToggleLike(c.Request().Context(), id, me.ID)
	if err != nil {
		return err
	}
	if !created {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusCreated, echo.Map{"eventLiked": like})
}

// ShareEvent records that the viewer shared an event.
func (h *EventHandler) ShareEvent(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	share, err := h.eventRepository.Share(c.Request().Context(), id, me.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"eventShared": share})
}

// CreateEvent creates an event at a location for an organization.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req models.CreateEventRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	date, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		return validators.NewIssue("date", "datetime", "date must be RFC 3339")
	}
	cats, err := validators.ParseCategories(req.Categories)
	if err != nil {
		return err
	}

	event := &models.Event{
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Date:           date,
		Categories:     cats,
		LocationID:     req.LocationID,
		OrganizationID: req.OrganizationID,
	}
	if err := h.eventRepository.Create(c.Request().Context(), event); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// UploadEventPhotos appends photos to an event, at most MaxEventPhotos in
// total.
func (h *EventHandler) UploadEventPhotos(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	files, err := readImages(c)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return validators.NewIssue("photos", "required", "at least one photo is required")
	}

	ctx := c.Request().Context()
	count, err := h.eventRepository.PhotoCount(ctx, id)
	if err != nil {
		return err
	}
	if int(count)+len(files) > models.MaxEventPhotos {
		return echo.NewHTTPError(http.StatusConflict, "Max number of photos exceeds the limit")
	}

	stored, err := storeImages(ctx, h.images, "event", fmt.Sprintf("events/%d", id), files)
	if err != nil {
		return err
	}
	photos := make([]models.EventPhoto, len(stored))
	for i, s := range stored {
		photos[i] = models.EventPhoto{URL: s.URL, Placeholder: s.Placeholder}
	}
	if err := h.eventRepository.AddPhotos(ctx, id, photos); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"photos": photos})
}
