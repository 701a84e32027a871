package handler

import (
	"github.com/shopspring/decimal"

	"github.com/Husnain-278/EventHub/internal/booking"
	"github.com/Husnain-278/EventHub/internal/model"
	"github.com/Husnain-278/EventHub/internal/pricing"
	"github.com/Husnain-278/EventHub/internal/repository"
)

// bookingView is the JSON shape of a booking.  Amounts are rendered as
// fixed two-place strings.
type bookingView struct {
	ID            uint64         `json:"id"`
	Venue         uint64         `json:"venue"`
	VenueName     string         `json:"venue_name"`
	EventType     uint64         `json:"event_type"`
	EventTypeName string         `json:"event_type_name"`
	CustomerName  string         `json:"customer_name"`
	CustomerEmail string         `json:"customer_email"`
	EventDate     string         `json:"event_date"`
	EventTime     string         `json:"event_time"`
	GuestsCount   uint32         `json:"guests_count"`
	ChairsCost    string         `json:"chairs_cost"`
	FoodCost      string         `json:"food_cost"`
	EventCost     string         `json:"event_cost"`
	TotalCost     string         `json:"total_cost"`
	Status        string         `json:"status"`
	MenuItems     []menuLineView `json:"menu_items"`
}

type menuLineView struct {
	ID           uint64 `json:"id"`
	MenuItem     uint64 `json:"menu_item"`
	Name         string `json:"name"`
	PricePerHead uint32 `json:"price_per_head"`
}

func money(d decimal.Decimal) string { return d.StringFixed(pricing.Places) }

func newBookingView(b model.Booking, venueName, eventTypeName string, items []model.BookingMenu) bookingView {
	lines := make([]menuLineView, 0, len(items))
	for _, it := range items {
		lines = append(lines, menuLineView{ID: it.ID, MenuItem: it.MenuItemID, Name: it.MenuItemName, PricePerHead: it.PricePerHead})
	}
	return bookingView{
		ID:            b.ID,
		Venue:         b.VenueID,
		VenueName:     venueName,
		EventType:     b.EventTypeID,
		EventTypeName: eventTypeName,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		EventDate:     b.EventDate,
		EventTime:     b.EventTime,
		GuestsCount:   b.GuestsCount,
		ChairsCost:    money(b.ChairsCost),
		FoodCost:      money(b.FoodCost),
		EventCost:     money(b.EventCost),
		TotalCost:     money(b.TotalCost),
		Status:        string(b.Status),
		MenuItems:     lines,
	}
}

func aggregateView(a *booking.Aggregate) bookingView {
	return newBookingView(a.Booking, a.Venue.Name, a.EventType.Name, a.Items)
}

func detailView(d repository.BookingDetail) bookingView {
	return newBookingView(d.Booking, d.VenueName, d.EventTypeName, d.MenuItems)
}
