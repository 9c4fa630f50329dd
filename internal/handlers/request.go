package handlers

import (
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/middleware"
	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/validators"
)

// maxUploadBytes bounds a single uploaded image.
const maxUploadBytes = 10 << 20

// bindValid binds the request into dst and validates it.
func bindValid(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	return c.Validate(dst)
}

// viewer returns the authenticated user; routes using it are registered
// behind the auth middleware.
func viewer(c echo.Context) (*models.User, error) {
	u := middleware.Viewer(c)
	if u == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "UNAUTHORIZED")
	}
	return u, nil
}

// idParam parses a positive numeric path parameter.
func idParam(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, validators.NewIssue(name, "number", name+" must be a positive integer")
	}
	return uint(id), nil
}

// readImages reads the uploaded images of a multipart form in order: the
// "photos" field when present, otherwise every file field by name.
func readImages(c echo.Context) ([][]byte, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "multipart form expected")
	}
	headers := form.File["photos"]
	if len(headers) == 0 {
		for _, field := range slices.Sorted(maps.Keys(form.File)) {
			headers = append(headers, form.File[field]...)
		}
	}
	return readFiles(headers)
}

func readFiles(headers []*multipart.FileHeader) ([][]byte, error) {
	out := make([][]byte, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxUploadBytes {
			return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, fh.Filename+" is too large")
		}
		if ct := fh.Header.Get(echo.HeaderContentType); ct != "" && !isImage(ct) {
			return nil, echo.NewHTTPError(http.StatusForbidden, "file format not supported")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

func isImage(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/bmp", "image/tiff":
		return true
	}
	return false
}
