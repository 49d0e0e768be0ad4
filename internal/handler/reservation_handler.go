package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"roomly/internal/errors"
	"roomly/internal/model"
	"roomly/internal/service"
)

// ReservationHandler handles reservation endpoints.
type ReservationHandler struct {
	reservationService service.ReservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(reservationService service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: reservationService}
}

// CreateReservationRequest represents a reservation creation request.
type CreateReservationRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Type        string `json:"type"`
	PeopleCount int    `json:"people_count" validate:"required,min=1"`
}

// UpdateReservationRequest represents a reservation update request. Only
// the fields present in the body are applied.
type UpdateReservationRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Start       *string `json:"start"`
	End         *string `json:"end"`
	Location    *string `json:"location"`
	Type        *string `json:"type"`
	PeopleCount *int    `json:"people_count" validate:"omitempty,min=1"`
}

// UpdateStatusRequest represents a reservation status change request.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// ReservationResponse wraps a reservation with the outcome of its
// calendar sync.
type ReservationResponse struct {
	Reservation *model.Reservation `json:"reservation"`
	Sync        service.SyncResult `json:"sync"`
}

// AvailabilityResponse reports whether a time window is free.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Location  string `json:"location"`
	Start     string `json:"start"`
	End       string `json:"end"`
}

// Create godoc
// @Summary Create a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateReservationRequest true "Reservation data"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /reservations [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	start, err := parseTime(req.Start)
	if err != nil {
		return invalidTimeResponse("start")
	}
	end, err := parseTime(req.End)
	if err != nil {
		return invalidTimeResponse("end")
	}

	reservation, syncResult, err := h.reservationService.Create(c.Request().Context(), user, service.CreateReservationInput{
		Title:       req.Title,
		Description: req.Description,
		Start:       start,
		End:         end,
		Location:    model.Location(req.Location),
		Type:        model.ReservationType(req.Type),
		PeopleCount: req.PeopleCount,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, ReservationResponse{
		Reservation: reservation,
		Sync:        syncResult,
	})
}

// Update godoc
// @Summary Update a reservation
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body UpdateReservationRequest true "Fields to update"
// @Success 200 {object} ReservationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reservations/{id} [put]
func (h *ReservationHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDResponse()
	}

	var req UpdateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	var in service.UpdateReservationInput
	in.Title = req.Title
	in.Description = req.Description
	in.PeopleCount = req.PeopleCount
	if req.Start != nil {
		start, err := parseTime(*req.Start)
		if err != nil {
			return invalidTimeResponse("start")
		}
		in.Start = &start
	}
	if req.End != nil {
		end, err := parseTime(*req.End)
		if err != nil {
			return invalidTimeResponse("end")
		}
		in.End = &end
	}
	if req.Location != nil {
		loc := model.Location(*req.Location)
		in.Location = &loc
	}
	if req.Type != nil {
		typ := model.ReservationType(*req.Type)
		in.Type = &typ
	}

	reservation, syncResult, err := h.reservationService.Update(c.Request().Context(), user, id, in)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, ReservationResponse{
		Reservation: reservation,
		Sync:        syncResult,
	})
}

// Delete godoc
// @Summary Delete a reservation
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [delete]
func (h *ReservationHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDResponse()
	}

	if err := h.reservationService.Delete(c.Request().Context(), user, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus godoc
// @Summary Change a reservation's status
// @Tags reservations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Param request body UpdateStatusRequest true "New status"
// @Success 200 {object} model.Reservation
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /reservations/{id}/status [patch]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDResponse()
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	reservation, err := h.reservationService.UpdateStatus(c.Request().Context(), user, id, model.ReservationStatus(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, reservation)
}

// Get godoc
// @Summary Get a reservation by ID
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reservation ID"
// @Success 200 {object} model.Reservation
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reservations/{id} [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDResponse()
	}

	reservation, err := h.reservationService.Get(c.Request().Context(), user, id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, reservation)
}

// List godoc
// @Summary List reservations visible to the caller
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Reservation
// @Failure 401 {object} errors.ErrorResponse
// @Router /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	reservations, err := h.reservationService.List(c.Request().Context(), user)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, reservations)
}

// CheckAvailability godoc
// @Summary Check whether a time window is free
// @Tags reservations
// @Produce json
// @Security BearerAuth
// @Param location query string true "Location name"
// @Param start query string true "Window start (RFC3339)"
// @Param end query string true "Window end (RFC3339)"
// @Param exclude_id query string false "Reservation to ignore"
// @Success 200 {object} AvailabilityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /reservations/availability [get]
func (h *ReservationHandler) CheckAvailability(c echo.Context) error {
	location := model.Location(c.QueryParam("location"))

	start, err := parseTime(c.QueryParam("start"))
	if err != nil {
		return invalidTimeResponse("start")
	}
	end, err := parseTime(c.QueryParam("end"))
	if err != nil {
		return invalidTimeResponse("end")
	}

	excludeID := uuid.Nil
	if raw := c.QueryParam("exclude_id"); raw != "" {
		excludeID, err = uuid.Parse(raw)
		if err != nil {
			return invalidIDResponse()
		}
	}

	available, err := h.reservationService.CheckAvailability(c.Request().Context(), location, start, end, excludeID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, AvailabilityResponse{
		Available: available,
		Location:  string(location),
		Start:     start.Format(time.RFC3339),
		End:       end.Format(time.RFC3339),
	})
}

// ListEvents godoc
// @Summary List reservations as calendar events
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param from query string true "Range start (RFC3339)"
// @Param to query string true "Range end (RFC3339)"
// @Param location query string false "Filter by location"
// @Success 200 {array} service.CalendarEventView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /calendar/events [get]
func (h *ReservationHandler) ListEvents(c echo.Context) error {
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

	location := model.Location(c.QueryParam("location"))

	events, err := h.reservationService.ListEvents(c.Request().Context(), user, from, to, location)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, events)
}

func parseTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}

func invalidTimeResponse(field string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid " + field + " timestamp, expected RFC3339",
		Code:  "INVALID_TIMESTAMP",
	})
}

func invalidIDResponse() error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: "invalid id",
		Code:  "INVALID_UUID",
	})
}
