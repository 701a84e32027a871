package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Husnain-278/EventHub/internal/booking"
	"github.com/Husnain-278/EventHub/internal/model"
	"github.com/Husnain-278/EventHub/internal/repository"
)

const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

// BookingHandler exposes booking creation and the booking read views.
type BookingHandler struct {
	Service  *booking.Service
	Bookings *repository.BookingRepo
}

// NewBookingHandler panics when a dependency is nil.
func NewBookingHandler(svc *booking.Service, bookings *repository.BookingRepo) *BookingHandler {
	if svc == nil || bookings == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Service: svc, Bookings: bookings}
}

type createBookingRequest struct {
	VenueID       uint64   `json:"venue_id" validate:"required"`
	EventTypeID   uint64   `json:"event_type_id" validate:"required"`
	CustomerName  string   `json:"customer_name" validate:"required,max=200"`
	CustomerEmail string   `json:"customer_email" validate:"required,email,max=254"`
	EventDate     string   `json:"event_date" validate:"required,datetime=2006-01-02"`
	EventTime     string   `json:"event_time" validate:"required"`
	GuestsCount   uint32   `json:"guests_count" validate:"required,gt=0"`
	MenuItems     []uint64 `json:"menu_items"`
	MenuItemIDs   []uint64 `json:"menu_item_ids"`
}

// decodeBody reads a JSON object, refuses derived cost keys, then
// decodes it into dst and runs the validator.
func decodeBody(c echo.Context, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBodyBytes))
	if err != nil {
		return errBadBody
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errBadBody
	}
	if err := booking.RejectDerivedFields(fields); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errBadBody
	}
	return c.Validate(dst)
}

// Create handles POST /v1/bookings.  The booking starts Pending; a
// status in the body is ignored and cost fields are rejected with 422.
// Menu items may be sent as menu_items or menu_item_ids; duplicates
// collapse into one line item.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := decodeBody(c, &req); err != nil {
		return writeError(c, err)
	}
	a, err := h.Service.Create(c.Request().Context(), booking.CreateInput{
		VenueID:       req.VenueID,
		EventTypeID:   req.EventTypeID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		EventDate:     req.EventDate,
		EventTime:     req.EventTime,
		GuestsCount:   req.GuestsCount,
		MenuItemIDs:   append(req.MenuItems, req.MenuItemIDs...),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": aggregateView(a)})
}

// List handles GET /v1/bookings with an optional ?status= filter.
func (h *BookingHandler) List(c echo.Context) error {
	status := model.BookingStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return writeError(c, booking.ErrInvalidStatus)
	}
	details, err := h.Bookings.List(c.Request().Context(), status)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]bookingView, 0, len(details))
	for _, d := range details {
		items = append(items, detailView(d))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	d, err := h.Bookings.GetDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": detailView(*d)})
}

// ListItems handles GET /v1/booking-menu: every line item of every
// booking.
func (h *BookingHandler) ListItems(c echo.Context) error {
	items, err := h.Bookings.ListItems(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
