// Package dbtest opens throwaway SQLite databases with the production
// schema applied and seeds catalog rows for tests.
package dbtest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/Husnain-278/EventHub/internal/database"
)

// New returns a migrated SQLite database living in t.TempDir().
func New(t testing.TB) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventhub.db")
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: path})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Venue inserts a venue and returns its id.
func Venue(t testing.TB, db *sql.DB, name string, pricePerChair uint32, active bool) uint64 {
	t.Helper()
	return insert(t, db,
		`INSERT INTO venues (name, location, description, capacity, price_per_chair, is_active) VALUES (?, ?, ?, ?, ?, ?)`,
		name, "Main Boulevard", "", 500, pricePerChair, active)
}

// EventType inserts an event type and returns its id.
func EventType(t testing.TB, db *sql.DB, name string, basePrice uint32) uint64 {
	t.Helper()
	return insert(t, db, `INSERT INTO event_types (name, base_price) VALUES (?, ?)`, name, basePrice)
}

// Category inserts a menu category and returns its id.
func Category(t testing.TB, db *sql.DB, name string) uint64 {
	t.Helper()
	return insert(t, db, `INSERT INTO menu_categories (name) VALUES (?)`, name)
}

// MenuItem inserts a menu item and returns its id.
func MenuItem(t testing.TB, db *sql.DB, categoryID uint64, name string, pricePerHead uint32, available bool) uint64 {
	t.Helper()
	return insert(t, db,
		`INSERT INTO menu_items (menu_category_id, name, price_per_head, is_available) VALUES (?, ?, ?, ?)`,
		categoryID, name, pricePerHead, available)
}

// Count returns SELECT COUNT(*) for the given table.
func Count(t testing.TB, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func insert(t testing.TB, db *sql.DB, q string, args ...any) uint64 {
	t.Helper()
	res, err := db.ExecContext(context.Background(), q, args...)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return uint64(id)
}
