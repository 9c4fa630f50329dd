package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/metrics"
	"github.com/anonto42/eventmatch/backend/pkg/imagestore"
)

// ImageStore persists uploaded images and returns them in upload order.
type ImageStore interface {
	Store(ctx context.Context, prefix string, files [][]byte) ([]imagestore.Stored, error)
}

// storeImages uploads files under prefix. Without a configured store the
// upload is unavailable.
func storeImages(ctx context.Context, store ImageStore, owner, prefix string, files [][]byte) ([]imagestore.Stored, error) {
	if store == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "image storage is not configured")
	}
	stored, err := store.Store(ctx, prefix, files)
	if err != nil {
		return nil, err
	}
	metrics.ImagesStoredTotal.WithLabelValues(owner).Add(float64(len(stored)))
	return stored, nil
}
