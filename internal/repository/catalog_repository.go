package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/Husnain-278/EventHub/internal/model"
)

// CatalogRepo reads the reference data a booking is priced from:
// venues, event types, menu categories and menu items.  The booking
// core never writes these tables.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo constructs a CatalogRepo with the given DB handle.
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const venueColumns = `id, name, location, COALESCE(description, ''), capacity, price_per_chair, is_active`

func scanVenue(row interface{ Scan(...any) error }, v *model.Venue) error {
	return row.Scan(&v.ID, &v.Name, &v.Location, &v.Description, &v.Capacity, &v.PricePerChair, &v.IsActive)
}

// VenueByID loads a venue regardless of its active flag.  It returns
// ErrVenueNotFound when no row matches.
func (r *CatalogRepo) VenueByID(ctx context.Context, q DBTX, id uint64) (*model.Venue, error) {
	var v model.Venue
	err := scanVenue(q.QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = ?`, id), &v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListActiveVenues returns the venues customers can book, ordered by id.
func (r *CatalogRepo) ListActiveVenues(ctx context.Context) ([]model.Venue, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Venue{}
	for rows.Next() {
		var v model.Venue
		if err := scanVenue(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// EventTypeByID loads one event type or returns ErrEventTypeNotFound.
func (r *CatalogRepo) EventTypeByID(ctx context.Context, q DBTX, id uint64) (*model.EventType, error) {
	var et model.EventType
	err := q.QueryRowContext(ctx, `SELECT id, name, base_price FROM event_types WHERE id = ?`, id).
		Scan(&et.ID, &et.Name, &et.BasePrice)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventTypeNotFound
		}
		return nil, err
	}
	return &et, nil
}

// ListEventTypes returns every event type ordered by id.
func (r *CatalogRepo) ListEventTypes(ctx context.Context) ([]model.EventType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, base_price FROM event_types ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.EventType{}
	for rows.Next() {
		var et model.EventType
		if err := rows.Scan(&et.ID, &et.Name, &et.BasePrice); err != nil {
			return nil, err
		}
		out = append(out, et)
	}
	return out, rows.Err()
}

// ListCategories returns every menu category ordered by id.
func (r *CatalogRepo) ListCategories(ctx context.Context) ([]model.MenuCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM menu_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MenuCategory{}
	for rows.Next() {
		var c model.MenuCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const menuItemSelect = `SELECT mi.id, mi.menu_category_id, mc.name, mi.name, mi.price_per_head, mi.is_available
                        FROM menu_items mi
                        JOIN menu_categories mc ON mc.id = mi.menu_category_id`

// ListMenuItems returns every menu item with its category name.
func (r *CatalogRepo) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	return r.queryMenuItems(ctx, r.db, menuItemSelect+` ORDER BY mi.id`)
}

// MenuItemsByIDs loads the menu items with the given ids, keyed by id.
// Ids that do not exist are simply absent from the map.
func (r *CatalogRepo) MenuItemsByIDs(ctx context.Context, q DBTX, ids []uint64) (map[uint64]model.MenuItem, error) {
	out := make(map[uint64]model.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	query := menuItemSelect + ` WHERE mi.id IN (` + placeholders(len(ids)) + `)`
	items, err := r.queryMenuItems(ctx, q, query, args...)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (r *CatalogRepo) queryMenuItems(ctx context.Context, q DBTX, query string, args ...any) ([]model.MenuItem, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MenuItem{}
	for rows.Next() {
		var it model.MenuItem
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.CategoryName, &it.Name, &it.PricePerHead, &it.IsAvailable); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
