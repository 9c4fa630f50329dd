package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
)

var organizationKeys = pagination.KeysFor("organizations")

// OrganizationHandler handles HTTP requests related to organizations
type OrganizationHandler struct {
	organizationRepository repositories.OrganizationRepository
	images                 ImageStore
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(orgRepo repositories.OrganizationRepository, images ImageStore) *OrganizationHandler {
	return &OrganizationHandler{organizationRepository: orgRepo, images: images}
}

// RegisterOrganizationRoutes registers organization routes
func (h *OrganizationHandler) RegisterOrganizationRoutes(g *echo.Group) {
	g.GET("", h.ListOrganizations)
	g.POST("", h.CreateOrganization)
	g.GET("/:id", h.GetOrganization)
}

// ListOrganizations lists organizations newest first.
func (h *OrganizationHandler) ListOrganizations(c echo.Context) error {
	var q models.PageQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.organizationRepository.List(c.Request().Context(), pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(organizationKeys))
}

// GetOrganization returns one organization.
func (h *OrganizationHandler) GetOrganization(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	org, err := h.organizationRepository.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, org)
}

// CreateOrganization registers an organization from a multipart form with
// an optional logo file.
func (h *OrganizationHandler) CreateOrganization(c echo.Context) error {
	var req models.CreateOrganizationRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	org := &models.Organization{
		UID:           req.UID,
		Name:          req.Name,
		Email:         req.Email,
		Description:   req.Description,
		Password:      string(hash),
		Phone:         req.Phone,
		WebPage:       req.WebPage,
		InstagramPage: req.InstagramPage,
		FacebookPage:  req.FacebookPage,
	}

	ctx := c.Request().Context()
	logo, err := c.FormFile("logo")
	switch {
	case err == nil:
		files, err := readFiles([]*multipart.FileHeader{logo})
		if err != nil {
			return err
		}
		stored, err := storeImages(ctx, h.images, "organization", "organizations/"+req.UID, files)
		if err != nil {
			return err
		}
		org.LogoURL = stored[0].URL
		org.LogoPlaceholder = stored[0].Placeholder
	case !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid logo upload")
	}

	if err := h.organizationRepository.Create(ctx, org); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, org)
}
