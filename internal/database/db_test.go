package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Husnain-278/EventHub/internal/database"
)

func TestMigrate_SQLiteCreatesSchema(t *testing.T) {
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "m.db")})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, database.Migrate(db, database.DriverSQLite))
	// second run is a no-op
	require.NoError(t, database.Migrate(db, database.DriverSQLite))

	for _, table := range []string{"venues", "event_types", "menu_categories", "menu_items", "bookings", "booking_menus"} {
		var name string
		err := db.QueryRowContext(context.Background(),
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open(database.Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestOpen_SQLiteNeedsPath(t *testing.T) {
	_, err := database.Open(database.Config{Driver: database.DriverSQLite})
	assert.Error(t, err)
}
