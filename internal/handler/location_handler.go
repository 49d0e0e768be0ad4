package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"roomly/internal/errors"
	"roomly/internal/repository"
)

// LocationHandler handles location endpoints.
type LocationHandler struct {
	locations repository.LocationRepository
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(locations repository.LocationRepository) *LocationHandler {
	return &LocationHandler{locations: locations}
}

// List godoc
// @Summary List reservable locations
// @Tags locations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.LocationInfo
// @Failure 401 {object} errors.ErrorResponse
// @Router /locations [get]
func (h *LocationHandler) List(c echo.Context) error {
	locations, err := h.locations.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, locations)
}
