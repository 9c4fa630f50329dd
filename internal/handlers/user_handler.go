package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
	"github.com/anonto42/eventmatch/backend/internal/validators"
)

const birthdayLayout = "2006-01-02"

var userKeys = pagination.KeysFor("users")

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	images         ImageStore
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, images ImageStore) *UserHandler {
	return &UserHandler{userRepository: userRepo, images: images}
}

// RegisterUserRoutes registers user routes. Routes acting for the viewer
// run behind auth. GET /:id takes the user's auth uid, the other :id
// routes its numeric id.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("", h.FindUser)
	g.POST("", h.CreateUser)
	g.GET("/search", h.SearchUsers, auth)
	g.GET("/:id", h.GetProfile)
	g.GET("/:id/targets", h.GetTargetProfile, auth)
	g.PATCH("/:id", h.UpdateUser, auth)
	g.POST("/:id/photos", h.UploadUserPhotos, auth)
	g.DELETE("/:id/photos/:photoId", h.DeleteUserPhoto, auth)
}

// FindUser looks a user up by username, email or phone.
func (h *UserHandler) FindUser(c echo.Context) error {
	var q models.FindUserQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	q.Username = validators.NormalizeHandle(q.Username)
	user, err := h.userRepository.FindUser(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser registers a user for an auth uid.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	birthday, err := time.Parse(birthdayLayout, req.Birthday)
	if err != nil {
		return validators.NewIssue("birthday", "datetime", "birthday must be YYYY-MM-DD")
	}

	user := &models.User{
		UID:                   req.UID,
		Username:              validators.NormalizeHandle(req.Username),
		Name:                  req.Name,
		Email:                 req.Email,
		Birthday:              &birthday,
		ActivateNotifications: true,
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// SearchUsers lists users other than the viewer by handle prefix.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	var q models.SearchUsersQuery
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.userRepository.SearchUsers(c.Request().Context(), me.ID, validators.SearchHandle(q.Username),
		pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(userKeys))
}

// GetProfile returns a user's profile with its latest liked events.
func (h *UserHandler) GetProfile(c echo.Context) error {
	profile, err := h.userRepository.Profile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// GetTargetProfile returns another user's profile with the viewer's
// friendship flags.
func (h *UserHandler) GetTargetProfile(c echo.Context) error {
	me, err := viewer(c)
	if err != nil {
		return err
	}
	profile, err := h.userRepository.TargetProfile(c.Request().Context(), me.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// ownUser resolves :id and requires it to be the viewer.
func ownUser(c echo.Context) (*models.User, error) {
	me, err := viewer(c)
	if err != nil {
		return nil, err
	}
	id, err := idParam(c, "id")
	if err != nil {
		return nil, err
	}
	if id != me.ID {
		return nil, echo.NewHTTPError(http.StatusForbidden, "FORBIDDEN")
	}
	return me, nil
}

// UpdateUser updates the viewer's own profile.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	me, err := ownUser(c)
	if err != nil {
		return err
	}
	var req models.UpdateUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, me.ID)
	if err != nil {
		return err
	}
	if err := applyUserUpdate(user, &req); err != nil {
		return err
	}
	if err := h.userRepository.UpdateUser(ctx, user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func applyUserUpdate(user *models.User, req *models.UpdateUserRequest) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	if req.Username != nil {
		user.Username = validators.NormalizeHandle(*req.Username)
	}
	set(&user.Name, req.Name)
	set(&user.Email, req.Email)
	set(&user.Phone, req.Phone)
	set(&user.Biography, req.Biography)
	set(&user.Occupation, req.Occupation)
	set(&user.LookingFor, req.LookingFor)
	set(&user.Gender, req.Gender)
	if req.Birthday != nil {
		b, err := time.Parse(birthdayLayout, *req.Birthday)
		if err != nil {
			return validators.NewIssue("birthday", "datetime", "birthday must be YYYY-MM-DD")
		}
		user.Birthday = &b
	}
	if req.Interests != nil {
		cats, err := validators.ParseCategories(*req.Interests)
		if err != nil {
			return err
		}
		user.Interests = cats
	}
	if req.ActivateNotifications != nil {
		user.ActivateNotifications = *req.ActivateNotifications
	}
	return nil
}

// UploadUserPhotos appends photos to the viewer's profile, at most
// MaxUserPhotos in total.
func (h *UserHandler) UploadUserPhotos(c echo.Context) error {
	me, err := ownUser(c)
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
	count, err := h.userRepository.PhotoCount(ctx, me.ID)
	if err != nil {
		return err
	}
	if int(count)+len(files) > models.MaxUserPhotos {
		return echo.NewHTTPError(http.StatusConflict, "Max number of photos exceeds the limit")
	}

	stored, err := storeImages(ctx, h.images, "user", fmt.Sprintf("users/%s", me.UID), files)
	if err != nil {
		return err
	}
	photos := make([]models.UserPhoto, len(stored))
	for i, s := range stored {
		photos[i] = models.UserPhoto{URL: s.URL, Placeholder: s.Placeholder}
	}
	if err := h.userRepository.AddPhotos(ctx, me.ID, photos); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"photos": photos, "maxNumPhotos": models.MaxUserPhotos})
}

// DeleteUserPhoto removes one of the viewer's photos.
func (h *UserHandler) DeleteUserPhoto(c echo.Context) error {
	me, err := ownUser(c)
	if err != nil {
		return err
	}
	photoID, err := idParam(c, "photoId")
	if err != nil {
		return err
	}
	if err := h.userRepository.DeletePhoto(c.Request().Context(), me.ID, photoID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
