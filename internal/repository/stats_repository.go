package repository

import (
	"context"
	"database/sql"
)

// Stats is the read-only dashboard projection served by /v1/event-stats.
type Stats struct {
	Venues struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"venues"`
	EventTypes     int `json:"event_types"`
	MenuCategories int `json:"menu_categories"`
	MenuItems      struct {
		Total     int `json:"total"`
		Available int `json:"available"`
	} `json:"menu_items"`
	Bookings struct {
		Total    int `json:"total"`
		Pending  int `json:"pending"`
		Active   int `json:"active"`
		Rejected int `json:"rejected"`
	} `json:"bookings"`
}

// StatsRepo runs the aggregate count queries behind Stats.
type StatsRepo struct {
	db *sql.DB
}

// NewStatsRepo constructs a StatsRepo.
func NewStatsRepo(db *sql.DB) *StatsRepo { return &StatsRepo{db: db} }

// Get collects all counts.  Each SUM is wrapped in COALESCE so empty
// tables report zero instead of NULL.
func (r *StatsRepo) Get(ctx context.Context) (*Stats, error) {
	var s Stats
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_active = 1 THEN 1 ELSE 0 END), 0) FROM venues`,
	).Scan(&s.Venues.Total, &s.Venues.Active)
	if err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_types`).Scan(&s.EventTypes); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM menu_categories`).Scan(&s.MenuCategories); err != nil {
		return nil, err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_available = 1 THEN 1 ELSE 0 END), 0) FROM menu_items`,
	).Scan(&s.MenuItems.Total, &s.MenuItems.Available)
	if err != nil {
		return nil, err
	}
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
                COALESCE(SUM(CASE WHEN status = 'Pending' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status = 'Active' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status = 'Rejected' THEN 1 ELSE 0 END), 0)
         FROM bookings`,
	).Scan(&s.Bookings.Total, &s.Bookings.Pending, &s.Bookings.Active, &s.Bookings.Rejected)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
