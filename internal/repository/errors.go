// Package repository defines the data access layer and the error
// values shared by its repositories.  Sentinel values allow higher
// layers such as handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import "errors"

// ErrBookingNotFound is returned when a booking lookup fails.
// Handlers should translate this into an HTTP 404 response.
var ErrBookingNotFound = errors.New("booking not found")

// ErrVenueNotFound is returned when a venue lookup fails.
var ErrVenueNotFound = errors.New("venue not found")

// ErrEventTypeNotFound is returned when an event type lookup fails.
var ErrEventTypeNotFound = errors.New("event type not found")
