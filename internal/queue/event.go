// Package queue defines the booking notification payload and the
// background consumer that turns queued notifications into confirmation
// log lines.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/Husnain-278/EventHub/internal/model"
)

// BookingEvent is published after a booking transaction commits.  It
// carries everything a confirmation needs so consumers never query the
// primary database.  Amounts are fixed two-place strings.
type BookingEvent struct {
	EventID       string   `json:"event_id"`
	Kind          string   `json:"kind"`
	BookingID     uint64   `json:"booking_id"`
	CustomerName  string   `json:"customer_name"`
	CustomerEmail string   `json:"customer_email"`
	VenueName     string   `json:"venue_name"`
	EventTypeName string   `json:"event_type_name"`
	EventDate     string   `json:"event_date"`
	EventTime     string   `json:"event_time"`
	GuestsCount   uint32   `json:"guests_count"`
	ChairsCost    string   `json:"chairs_cost"`
	FoodCost      string   `json:"food_cost"`
	EventCost     string   `json:"event_cost"`
	TotalCost     string   `json:"total_cost"`
	Status        string   `json:"status"`
	MenuItems     []string `json:"menu_items"`
	OccurredAt    string   `json:"occurred_at"`
}

// NewBookingEvent builds the payload for snap with a fresh event id.
func NewBookingEvent(kind model.EventKind, snap model.BookingSnapshot, at time.Time) BookingEvent {
	items := snap.MenuItems
	if items == nil {
		items = []string{}
	}
	return BookingEvent{
		EventID:       uuid.NewString(),
		Kind:          string(kind),
		BookingID:     snap.BookingID,
		CustomerName:  snap.CustomerName,
		CustomerEmail: snap.CustomerEmail,
		VenueName:     snap.VenueName,
		EventTypeName: snap.EventTypeName,
		EventDate:     snap.EventDate,
		EventTime:     snap.EventTime,
		GuestsCount:   snap.GuestsCount,
		ChairsCost:    snap.ChairsCost.StringFixed(2),
		FoodCost:      snap.FoodCost.StringFixed(2),
		EventCost:     snap.EventCost.StringFixed(2),
		TotalCost:     snap.TotalCost.StringFixed(2),
		Status:        string(snap.Status),
		MenuItems:     items,
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
