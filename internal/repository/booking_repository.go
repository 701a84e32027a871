package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Husnain-278/EventHub/internal/model"
)

// BookingRepo provides persistence for bookings and their menu line
// items (the booking_menus table).  Writes that must be atomic take a
// *sql.Tx supplied by the caller; the caller commits or rolls back.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning several repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `b.id, b.venue_id, b.event_type_id, b.customer_name, b.customer_email,
                        b.event_date, b.event_time, b.guests_count,
                        b.chairs_cost, b.food_cost, b.event_cost, b.total_cost, b.status`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking, extra ...any) error {
	dest := []any{
		&b.ID, &b.VenueID, &b.EventTypeID, &b.CustomerName, &b.CustomerEmail,
		dateColumn{&b.EventDate}, clockColumn{&b.EventTime}, &b.GuestsCount,
		&b.ChairsCost, &b.FoodCost, &b.EventCost, &b.TotalCost, &b.Status,
	}
	return row.Scan(append(dest, extra...)...)
}

// InsertTx inserts a new booking within the caller's transaction and
// sets the generated ID on b.  Cost fields are written exactly as they
// are on b.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (venue_id, event_type_id, customer_name, customer_email, event_date, event_time,
                                     guests_count, chairs_cost, food_cost, event_cost, total_cost, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		b.VenueID, b.EventTypeID, b.CustomerName, b.CustomerEmail, b.EventDate, b.EventTime,
		b.GuestsCount, b.ChairsCost, b.FoodCost, b.EventCost, b.TotalCost, string(b.Status),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// UpdateTx rewrites every column of an existing booking.  Row counts are
// not checked because MySQL reports zero affected rows for an update
// that leaves values unchanged; callers lock the row first with
// GetForUpdateTx, which reports missing bookings.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `UPDATE bookings
               SET venue_id = ?, event_type_id = ?, customer_name = ?, customer_email = ?,
                   event_date = ?, event_time = ?, guests_count = ?,
                   chairs_cost = ?, food_cost = ?, event_cost = ?, total_cost = ?, status = ?,
                   updated_at = CURRENT_TIMESTAMP
               WHERE id = ?`
	_, err := tx.ExecContext(ctx, q,
		b.VenueID, b.EventTypeID, b.CustomerName, b.CustomerEmail,
		b.EventDate, b.EventTime, b.GuestsCount,
		b.ChairsCost, b.FoodCost, b.EventCost, b.TotalCost, string(b.Status),
		b.ID,
	)
	return err
}

// GetForUpdateTx takes the booking's row lock and returns the current
// row.  The no-op UPDATE acquires an exclusive row lock in InnoDB and the
// database write lock in SQLite, so concurrent writers touching the same
// booking serialize until this transaction ends.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Booking, error) {
	if _, err := tx.ExecContext(ctx, `UPDATE bookings SET id = id WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, tx, id)
}

// GetByID loads one booking.  It returns ErrBookingNotFound when no row
// matches.
func (r *BookingRepo) GetByID(ctx context.Context, q DBTX, id uint64) (*model.Booking, error) {
	var b model.Booking
	err := scanBooking(q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ?`, id), &b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Delete removes a booking; its line items go with it through the
// ON DELETE CASCADE foreign key.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// BookingDetail is a booking joined with the names of its venue and
// event type and the menu items selected for it.
type BookingDetail struct {
	model.Booking
	VenueName     string              `json:"venue_name"`
	EventTypeName string              `json:"event_type_name"`
	MenuItems     []model.BookingMenu `json:"menu_items"`
}

// List returns every booking, newest first, optionally filtered by
// status (empty string means all).  Line items are loaded with one
// additional query.
func (r *BookingRepo) List(ctx context.Context, status model.BookingStatus) ([]BookingDetail, error) {
	q := `SELECT ` + bookingColumns + `, v.name, et.name
          FROM bookings b
          JOIN venues v ON v.id = b.venue_id
          JOIN event_types et ON et.id = b.event_type_id`
	var args []any
	if status != "" {
		q += ` WHERE b.status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY b.id DESC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []BookingDetail{}
	index := map[uint64]int{}
	for rows.Next() {
		var d BookingDetail
		if err := scanBooking(rows, &d.Booking, &d.VenueName, &d.EventTypeName); err != nil {
			return nil, err
		}
		d.MenuItems = []model.BookingMenu{}
		index[d.ID] = len(out)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	items, err := r.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if i, ok := index[it.BookingID]; ok {
			out[i].MenuItems = append(out[i].MenuItems, it)
		}
	}
	return out, nil
}

// GetDetail returns a single booking with venue/event type names and
// its line items.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
	const q = `SELECT ` + bookingColumns + `, v.name, et.name
               FROM bookings b
               JOIN venues v ON v.id = b.venue_id
               JOIN event_types et ON et.id = b.event_type_id
               WHERE b.id = ?`
	var d BookingDetail
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &d.Booking, &d.VenueName, &d.EventTypeName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	items, err := r.Items(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	d.MenuItems = items
	return &d, nil
}

const bookingMenuSelect = `SELECT bm.id, bm.booking_id, bm.menu_item_id, mi.name, mi.price_per_head
                           FROM booking_menus bm
                           JOIN menu_items mi ON mi.id = bm.menu_item_id`

// Items returns the current line items of one booking in insertion
// order, each carrying its menu item's price per head.
func (r *BookingRepo) Items(ctx context.Context, q DBTX, bookingID uint64) ([]model.BookingMenu, error) {
	return queryItems(ctx, q, bookingMenuSelect+` WHERE bm.booking_id = ? ORDER BY bm.id`, bookingID)
}

// ListItems returns every line item of every booking.
func (r *BookingRepo) ListItems(ctx context.Context) ([]model.BookingMenu, error) {
	return queryItems(ctx, r.db, bookingMenuSelect+` ORDER BY bm.booking_id, bm.id`)
}

func queryItems(ctx context.Context, q DBTX, query string, args ...any) ([]model.BookingMenu, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.BookingMenu{}
	for rows.Next() {
		var it model.BookingMenu
		if err := rows.Scan(&it.ID, &it.BookingID, &it.MenuItemID, &it.MenuItemName, &it.PricePerHead); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// CreateItemsBulkTx inserts one booking_menus row per menu item id in a
// single statement.  Callers deduplicate ids; a pair that already exists
// violates the unique key and fails the statement.  Passing an empty
// slice has no effect and returns nil.
func (r *BookingRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, bookingID uint64, menuItemIDs []uint64) error {
	if len(menuItemIDs) == 0 {
		return nil
	}
	query := `INSERT INTO booking_menus (booking_id, menu_item_id) VALUES `
	args := make([]any, 0, len(menuItemIDs)*2)
	for i, id := range menuItemIDs {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, bookingID, id)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteItemsTx removes the given menu items from a booking.
func (r *BookingRepo) DeleteItemsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, menuItemIDs []uint64) error {
	if len(menuItemIDs) == 0 {
		return nil
	}
	args := make([]any, 0, len(menuItemIDs)+1)
	args = append(args, bookingID)
	for _, id := range menuItemIDs {
		args = append(args, id)
	}
	q := `DELETE FROM booking_menus WHERE booking_id = ? AND menu_item_id IN (` + placeholders(len(menuItemIDs)) + `)`
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}
