package router

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/anonto42/eventmatch/backend/internal/handlers"
	"github.com/anonto42/eventmatch/backend/internal/middleware"
	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
	"github.com/anonto42/eventmatch/backend/internal/validators"
	"github.com/anonto42/eventmatch/backend/pkg/config"
)

// Deps are the collaborators the routes are built from. Mongo and Images
// are optional; the features using them answer 503 without them.
type Deps struct {
	Postgres *gorm.DB
	Mongo    *mongo.Database
	Verifier middleware.TokenVerifier
	Images   handlers.ImageStore
	Logger   *slog.Logger
}

// New builds the echo instance with middleware, validation, error handling
// and every route.
func New(deps Deps) (*echo.Echo, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	config.SetupMiddleware(e, deps.Logger)
	if err := SetupRoutes(e, deps); err != nil {
		return nil, err
	}
	return e, nil
}

// SetupRoutes migrates the relational models and registers all routes.
func SetupRoutes(e *echo.Echo, deps Deps) error {
	log := deps.Logger
	if err := deps.Postgres.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	log.Info("PostgreSQL auto-migrations completed for all models.")

	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	eventRepo := repositories.NewPostgresEventRepository(deps.Postgres)
	friendshipRepo := repositories.NewPostgresFriendshipRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	organizationRepo := repositories.NewPostgresOrganizationRepository(deps.Postgres)
	var cityRepo repositories.CityRepository
	if deps.Mongo != nil {
		cityRepo = repositories.NewMongoCityRepository(deps.Mongo)
	}

	auth := middleware.Authenticate(deps.Verifier, userRepo)
	api := e.Group("/api/v1")

	eventHandler := handlers.NewEventHandler(eventRepo, userRepo, deps.Images)
	eventHandler.RegisterEventRoutes(api.Group("/events", auth))
	log.Info("Event routes configured.")

	userHandler := handlers.NewUserHandler(userRepo, deps.Images)
	userHandler.RegisterUserRoutes(api.Group("/users"), auth)
	log.Info("User routes configured.")

	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, notificationRepo)
	friendshipHandler.RegisterFriendshipRoutes(api.Group("/friendships", auth))
	log.Info("Friendship routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api.Group("/notifications", auth))
	log.Info("Notification routes configured.")

	organizationHandler := handlers.NewOrganizationHandler(organizationRepo, deps.Images)
	organizationHandler.RegisterOrganizationRoutes(api.Group("/organizations"))
	log.Info("Organization routes configured.")

	cityHandler := handlers.NewCityHandler(cityRepo)
	cityHandler.RegisterCityRoutes(api.Group("/world-cities"))
	log.Info("World cities routes configured.", "enabled", cityRepo != nil)

	log.Info("All routes configured.")
	return nil
}
