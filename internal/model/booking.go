package model

import "github.com/shopspring/decimal"

// BookingStatus is the administrative state of a booking.
type BookingStatus string

const (
	StatusPending  BookingStatus = "Pending"
	StatusActive   BookingStatus = "Active"
	StatusRejected BookingStatus = "Rejected"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected:
		return true
	}
	return false
}

// Booking records a customer's reservation of a venue for an event.
// The four cost fields are derived from the venue, the event type and
// the booking's menu line items; they are only ever written by the
// cost engine.
//
// Fields:
//  ID            – primary key identifier (0 until inserted).
//  VenueID       – booked venue.
//  EventTypeID   – kind of event.
//  CustomerName  – contact name.
//  CustomerEmail – contact email.
//  EventDate     – date in YYYY-MM-DD.
//  EventTime     – time of day in HH:MM:SS.
//  GuestsCount   – number of guests, always positive.
//  ChairsCost    – guests × venue price per chair.
//  FoodCost      – guests × sum of selected menu prices.
//  EventCost     – event type base price.
//  TotalCost     – chairs + food + event.
//  Status        – Pending, Active or Rejected.
type Booking struct {
	ID            uint64          `json:"id"`             // bookings.id
	VenueID       uint64          `json:"venue"`          // bookings.venue_id
	EventTypeID   uint64          `json:"event_type"`     // bookings.event_type_id
	CustomerName  string          `json:"customer_name"`  // bookings.customer_name
	CustomerEmail string          `json:"customer_email"` // bookings.customer_email
	EventDate     string          `json:"event_date"`     // bookings.event_date
	EventTime     string          `json:"event_time"`     // bookings.event_time
	GuestsCount   uint32          `json:"guests_count"`   // bookings.guests_count
	ChairsCost    decimal.Decimal `json:"chairs_cost"`    // bookings.chairs_cost
	FoodCost      decimal.Decimal `json:"food_cost"`      // bookings.food_cost
	EventCost     decimal.Decimal `json:"event_cost"`     // bookings.event_cost
	TotalCost     decimal.Decimal `json:"total_cost"`     // bookings.total_cost
	Status        BookingStatus   `json:"status"`         // bookings.status
}

// BookingMenu links a booking to one selected menu item.  A
// (booking, menu item) pair appears at most once.  MenuItemName and
// PricePerHead are loaded through a join with menu_items.
type BookingMenu struct {
	ID           uint64 `json:"id"`             // booking_menus.id
	BookingID    uint64 `json:"booking"`        // booking_menus.booking_id
	MenuItemID   uint64 `json:"menu_item"`      // booking_menus.menu_item_id
	MenuItemName string `json:"menu_item_name"` // menu_items.name
	PricePerHead uint32 `json:"price_per_head"` // menu_items.price_per_head
}

// BookingSnapshot is the fully resolved view of a committed booking
// handed to the notification dispatcher.
type BookingSnapshot struct {
	BookingID     uint64
	CustomerName  string
	CustomerEmail string
	VenueName     string
	EventTypeName string
	EventDate     string
	EventTime     string
	GuestsCount   uint32
	ChairsCost    decimal.Decimal
	FoodCost      decimal.Decimal
	EventCost     decimal.Decimal
	TotalCost     decimal.Decimal
	Status        BookingStatus
	MenuItems     []string
}

// EventKind names the booking lifecycle moment a notification reports.
type EventKind string

const (
	EventCreated       EventKind = "created"
	EventStatusChanged EventKind = "status_changed"
)
