// Package booking holds the booking aggregate and the transactional
// workflows that create and modify it.  Cost fields are never taken
// from callers: every write recalculates them from the venue, the event
// type and the line items visible in the same transaction.
package booking

import (
	"github.com/Husnain-278/EventHub/internal/model"
	"github.com/Husnain-278/EventHub/internal/pricing"
)

// Aggregate is a booking together with everything its costs are derived
// from.  Items must reflect the durable line-item set before
// Recalculate is called.
type Aggregate struct {
	Booking   model.Booking
	Venue     model.Venue
	EventType model.EventType
	Items     []model.BookingMenu
}

// Recalculate rewrites the four cost fields from the current state.
// Running it twice without a change in between yields identical values.
func (a *Aggregate) Recalculate() {
	prices := make([]uint32, 0, len(a.Items))
	for _, it := range a.Items {
		prices = append(prices, it.PricePerHead)
	}
	b := pricing.Compute(pricing.Input{
		Persisted:     a.Booking.ID != 0,
		GuestsCount:   a.Booking.GuestsCount,
		PricePerChair: a.Venue.PricePerChair,
		BasePrice:     a.EventType.BasePrice,
		PricesPerHead: prices,
	})
	a.Booking.ChairsCost = b.Chairs
	a.Booking.FoodCost = b.Food
	a.Booking.EventCost = b.Event
	a.Booking.TotalCost = b.Total
}

// MenuItemIDs returns the ids of the attached menu items in order.
func (a *Aggregate) MenuItemIDs() []uint64 {
	ids := make([]uint64, 0, len(a.Items))
	for _, it := range a.Items {
		ids = append(ids, it.MenuItemID)
	}
	return ids
}

// Snapshot resolves the booking into the view handed to notifiers.
func (a *Aggregate) Snapshot() model.BookingSnapshot {
	names := make([]string, 0, len(a.Items))
	for _, it := range a.Items {
		names = append(names, it.MenuItemName)
	}
	b := a.Booking
	return model.BookingSnapshot{
		BookingID:     b.ID,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		VenueName:     a.Venue.Name,
		EventTypeName: a.EventType.Name,
		EventDate:     b.EventDate,
		EventTime:     b.EventTime,
		GuestsCount:   b.GuestsCount,
		ChairsCost:    b.ChairsCost,
		FoodCost:      b.FoodCost,
		EventCost:     b.EventCost,
		TotalCost:     b.TotalCost,
		Status:        b.Status,
		MenuItems:     names,
	}
}
