package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/middleware"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
	"github.com/anonto42/eventmatch/backend/internal/validators"
)

// ErrorHandler renders every error as {status, message}; validation errors
// carry their issue list instead.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var verr *validators.ValidationError
	if errors.As(err, &verr) {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "Validation failed", "issues": verr.Issues})
		return
	}

	he := toHTTPError(err)
	if he.Code >= http.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", middleware.RequestID(c),
			"path", c.Request().URL.Path,
			"error", err)
	}

	var resErr error
	if c.Request().Method == http.MethodHead {
		resErr = c.NoContent(he.Code)
	} else {
		resErr = c.JSON(he.Code, echo.Map{"status": he.Code, "message": he.Message})
	}
	if resErr != nil {
		slog.Error("write error response", "error", resErr)
	}
}

func toHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}
	if mapped := mapRepositoryError(err); mapped != nil {
		return mapped
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

// mapRepositoryError maps the repository sentinels onto HTTP errors, nil
// when err is none of them.
func mapRepositoryError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrSelfFriendship):
		return echo.NewHTTPError(http.StatusBadRequest, repositories.ErrSelfFriendship.Error())
	case errors.Is(err, repositories.ErrNotReceiver),
		errors.Is(err, repositories.ErrSelfMatch):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrInvitationPending),
		errors.Is(err, repositories.ErrAlreadyFriends),
		errors.Is(err, repositories.ErrInvitationMissing),
		errors.Is(err, repositories.ErrNotFriends),
		errors.Is(err, repositories.ErrBlocked),
		errors.Is(err, repositories.ErrPhotoLimit),
		errors.Is(err, repositories.ErrEmailTaken),
		errors.Is(err, repositories.ErrUsernameTaken):
		return echo.NewHTTPError(http.StatusConflict, rootMessage(err))
	}
	return nil
}

// rootMessage returns the innermost error's message, which for the
// repository sentinels is the client facing code.
func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
