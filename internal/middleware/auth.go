package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/models"
)

// ViewerKey is the echo context key holding the authenticated *models.User.
const ViewerKey = "viewer"

// TokenVerifier checks a bearer token and returns the auth uid it was
// issued for.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// UserLookup resolves an auth uid to the stored user.
type UserLookup interface {
	GetUserByUID(ctx context.Context, uid string) (*models.User, error)
}

var errNoBearer = errors.New("no bearer token")

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errNoBearer
	}
	return parts[1], nil
}

// Authenticate requires a bearer token belonging to a stored user. A
// missing token is forbidden; an invalid token or an unknown uid is
// unauthorized.
func Authenticate(verifier TokenVerifier, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, "FORBIDDEN")
			}

			ctx := c.Request().Context()
			uid, err := verifier.Verify(ctx, token)
			if err != nil {
				slog.Debug("token rejected", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "UNAUTHORIZED")
			}

			user, err := users.GetUserByUID(ctx, uid)
			if err != nil || user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "UNAUTHORIZED")
			}

			c.Set(ViewerKey, user)
			return next(c)
		}
	}
}

// Viewer returns the user stored by Authenticate, nil on open routes.
func Viewer(c echo.Context) *models.User {
	u, _ := c.Get(ViewerKey).(*models.User)
	return u
}
