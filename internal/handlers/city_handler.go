package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/anonto42/eventmatch/backend/internal/models"
	"github.com/anonto42/eventmatch/backend/internal/pagination"
	"github.com/anonto42/eventmatch/backend/internal/repositories"
)

var cityKeys = pagination.Keys{Items: "cities", Total: "totalCities", PerPage: "citiesPerPage", OmitHasNext: true}

// CityHandler serves the world cities lookup
type CityHandler struct {
	cityRepository repositories.CityRepository
}

// NewCityHandler creates a new CityHandler
func NewCityHandler(cityRepo repositories.CityRepository) *CityHandler {
	return &CityHandler{cityRepository: cityRepo}
}

// RegisterCityRoutes registers world cities routes
func (h *CityHandler) RegisterCityRoutes(g *echo.Group) {
	g.GET("", h.SearchCities)
}

// SearchCities lists cities whose name contains cityName, by name.
func (h *CityHandler) SearchCities(c echo.Context) error {
	if h.cityRepository == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "world cities are not configured")
	}
	q := models.CitiesQuery{Cursor: -1}
	if err := bindValid(c, &q); err != nil {
		return err
	}
	page, err := h.cityRepository.Search(c.Request().Context(), q.CityName, pagination.NewPlan(q.Limit, q.Cursor))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page.Envelope(cityKeys))
}
