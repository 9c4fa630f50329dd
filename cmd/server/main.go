package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anonto42/eventmatch/backend/internal/handlers"
	"github.com/anonto42/eventmatch/backend/internal/middleware"
	"github.com/anonto42/eventmatch/backend/internal/router"
	"github.com/anonto42/eventmatch/backend/pkg/config"
	"github.com/anonto42/eventmatch/backend/pkg/firebase"
	"github.com/anonto42/eventmatch/backend/pkg/imagestore"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(cfg)

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to initialize databases", "error", err)
		os.Exit(1)
	}
	defer db.CloseDB()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	verifier, images, err := initAuthAndStorage(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Firebase", "error", err)
		os.Exit(1)
	}

	e, err := router.New(router.Deps{
		Postgres: db.Postgres,
		Mongo:    db.MongoDatabase(),
		Verifier: verifier,
		Images:   images,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("Failed to set up routes", "error", err)
		os.Exit(1)
	}

	metricsSrv := &http.Server{Addr: ":" + cfg.MetricsPort, Handler: promhttp.Handler()}
	go func() {
		logger.Info("Metrics server listening", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", "error", err)
		}
	}()

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	_ = metricsSrv.Shutdown(shutdownCtx)
}

// initAuthAndStorage picks the token verifier and, with Firebase, opens the
// image bucket. Image uploads are disabled when no bucket is configured.
func initAuthAndStorage(ctx context.Context, cfg *config.Config) (middleware.TokenVerifier, handlers.ImageStore, error) {
	if cfg.AuthProvider == config.AuthJWT {
		if cfg.JWTSecret == "" {
			return nil, nil, errors.New("JWT_SECRET must be set when AUTH_PROVIDER=jwt")
		}
		slog.Warn("Using HMAC JWT verification, image uploads are disabled")
		return middleware.NewJWTVerifier(cfg.JWTSecret), nil, nil
	}

	app, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		return nil, nil, err
	}
	verifier := middleware.NewFirebaseVerifier(app.AuthClient)
	if app.Bucket == nil {
		slog.Warn("FIREBASE_STORAGE_BUCKET not set, image uploads are disabled")
		return verifier, nil, nil
	}
	return verifier, imagestore.NewProcessor(imagestore.NewFirebaseBucket(app.Bucket, app.BucketName)), nil
}
