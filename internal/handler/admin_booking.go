package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Husnain-278/EventHub/internal/booking"
	"github.com/Husnain-278/EventHub/internal/model"
)

// AdminBookingHandler carries the administrative booking actions:
// status transitions, line-item editing, scalar edits and deletion.
// Routes are expected behind JWTAuth and RequireRole(ADMIN).
type AdminBookingHandler struct {
	Service *booking.Service
}

func NewAdminBookingHandler(svc *booking.Service) *AdminBookingHandler {
	if svc == nil {
		panic("nil service passed to NewAdminBookingHandler")
	}
	return &AdminBookingHandler{Service: svc}
}

// SetStatus handles PATCH /v1/admin/bookings/:id/status.
func (h *AdminBookingHandler) SetStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := decodeBody(c, &req); err != nil {
		return writeError(c, err)
	}
	a, err := h.Service.SetStatus(c.Request().Context(), id, model.BookingStatus(req.Status))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": aggregateView(a)})
}

// BulkStatus returns the handler behind POST /v1/admin/bookings/approve,
// /reject and /pending.  The body is {"ids": [...]}; unknown ids are
// skipped.
func (h *AdminBookingHandler) BulkStatus(status model.BookingStatus) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req struct {
			IDs []uint64 `json:"ids" validate:"required,min=1,dive,gt=0"`
		}
		if err := decodeBody(c, &req); err != nil {
			return writeError(c, err)
		}
		n, err := h.Service.SetStatusBulk(c.Request().Context(), req.IDs, status)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, echo.Map{"updated": n, "status": status})
	}
}

// ReplaceMenuItems handles PUT /v1/admin/bookings/:id/menu-items.
func (h *AdminBookingHandler) ReplaceMenuItems(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req struct {
		MenuItems []uint64 `json:"menu_items" validate:"dive,gt=0"`
	}
	if err := decodeBody(c, &req); err != nil {
		return writeError(c, err)
	}
	a, err := h.Service.ReplaceMenuItems(c.Request().Context(), id, req.MenuItems)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": aggregateView(a)})
}

type updateBookingRequest struct {
	VenueID       *uint64 `json:"venue_id" validate:"omitempty,gt=0"`
	EventTypeID   *uint64 `json:"event_type_id" validate:"omitempty,gt=0"`
	CustomerName  *string `json:"customer_name" validate:"omitempty,min=1,max=200"`
	CustomerEmail *string `json:"customer_email" validate:"omitempty,email,max=254"`
	EventDate     *string `json:"event_date" validate:"omitempty,datetime=2006-01-02"`
	EventTime     *string `json:"event_time"`
	GuestsCount   *uint32 `json:"guests_count" validate:"omitempty,gt=0"`
}

// Update handles PUT /v1/admin/bookings/:id.  Absent fields keep their
// value; cost fields are rejected with 422 and status has its own
// endpoint.
func (h *AdminBookingHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateBookingRequest
	if err := decodeBody(c, &req); err != nil {
		return writeError(c, err)
	}
	a, err := h.Service.Update(c.Request().Context(), id, booking.UpdateInput{
		VenueID:       req.VenueID,
		EventTypeID:   req.EventTypeID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		GuestsCount:   req.GuestsCount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": aggregateView(a)})
}

// Delete handles DELETE /v1/admin/bookings/:id.
func (h *AdminBookingHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	if err := h.Service.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
