package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"roomly/internal/service"
)

// CalendarHandler exposes the caller's Google calendar events.
type CalendarHandler struct {
	sync service.CalendarSync
}

// NewCalendarHandler creates a new calendar handler.
func NewCalendarHandler(sync service.CalendarSync) *CalendarHandler {
	return &CalendarHandler{sync: sync}
}

// GoogleEventsResponse carries Google events plus the sync outcome, so a
// client can tell an empty calendar apart from missing credentials.
type GoogleEventsResponse struct {
	Events []service.GoogleEventView `json:"events"`
	Sync   service.SyncResult        `json:"sync"`
}

// ListGoogleEvents godoc
// @Summary List the caller's Google calendar events
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Success 200 {object} GoogleEventsResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /calendar/google [get]
func (h *CalendarHandler) ListGoogleEvents(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	from, err := parseTime(c.QueryParam("from"))
	if err != nil {
		return invalidTimeResponse("from")
	}
	to, err := parseTime(c.QueryParam("to"))
	if err != nil {
		return invalidTimeResponse("to")
	}

	events, syncResult := h.sync.ListRemoteEvents(c.Request().Context(), user, from, to)
	if events == nil {
		events = []service.GoogleEventView{}
	}

	return c.JSON(http.StatusOK, GoogleEventsResponse{
		Events: events,
		Sync:   syncResult,
	})
}
