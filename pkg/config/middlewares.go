package config

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	appmw "github.com/anonto42/eventmatch/backend/internal/middleware"
)

// SetupMiddleware installs the global middleware: request logging, panic
// recovery and CORS.
func SetupMiddleware(e *echo.Echo, logger *slog.Logger) {
	e.Use(appmw.RequestLogger(logger, "/health"))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
}
