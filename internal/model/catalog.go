package model

// Venue is a hall or ground that can be booked for an event.  Only
// active venues are offered to customers.  The core never mutates
// venues; they are reference data read while pricing a booking.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name.
//  Location      – free-form address.
//  Description   – optional description.
//  Capacity      – maximum number of guests.
//  PricePerChair – price charged per guest seat.
//  IsActive      – whether the venue can be booked.
type Venue struct {
	ID            uint64 `json:"id"`              // venues.id
	Name          string `json:"name"`            // venues.name
	Location      string `json:"location"`        // venues.location
	Description   string `json:"description"`     // venues.description
	Capacity      uint32 `json:"capacity"`        // venues.capacity
	PricePerChair uint32 `json:"price_per_chair"` // venues.price_per_chair
	IsActive      bool   `json:"is_active"`       // venues.is_active
}

// EventType describes the kind of event (wedding, birthday, ...) and
// carries its flat base price.
type EventType struct {
	ID        uint64 `json:"id"`         // event_types.id
	Name      string `json:"name"`       // event_types.name
	BasePrice uint32 `json:"base_price"` // event_types.base_price
}

// MenuCategory groups menu items (starters, mains, desserts).
type MenuCategory struct {
	ID   uint64 `json:"id"`   // menu_categories.id
	Name string `json:"name"` // menu_categories.name
}

// MenuItem is a dish priced per guest.  CategoryName is filled by
// joins for listing and is not a column of menu_items.
type MenuItem struct {
	ID           uint64 `json:"id"`                 // menu_items.id
	CategoryID   uint64 `json:"menu_category"`      // menu_items.menu_category_id
	CategoryName string `json:"menu_category_name"` // menu_categories.name
	Name         string `json:"name"`               // menu_items.name
	PricePerHead uint32 `json:"price_per_head"`     // menu_items.price_per_head
	IsAvailable  bool   `json:"is_available"`       // menu_items.is_available
}
