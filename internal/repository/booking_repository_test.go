package repository_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Husnain-278/EventHub/internal/database/dbtest"
	"github.com/Husnain-278/EventHub/internal/model"
	"github.com/Husnain-278/EventHub/internal/repository"
)

type fixture struct {
	db        *sql.DB
	venue     uint64
	eventType uint64
	soup      uint64
	rice      uint64
}

func newFixture(t *testing.T) fixture {
	db := dbtest.New(t)
	cat := dbtest.Category(t, db, "Mains")
	return fixture{
		db:        db,
		venue:     dbtest.Venue(t, db, "Royal Hall", 500, true),
		eventType: dbtest.EventType(t, db, "Wedding", 20000),
		soup:      dbtest.MenuItem(t, db, cat, "Soup", 300, true),
		rice:      dbtest.MenuItem(t, db, cat, "Rice", 200, true),
	}
}

func (f fixture) booking() *model.Booking {
	return &model.Booking{
		VenueID:       f.venue,
		EventTypeID:   f.eventType,
		CustomerName:  "Ayesha",
		CustomerEmail: "ayesha@example.com",
		EventDate:     "2026-12-01",
		EventTime:     "18:30:00",
		GuestsCount:   50,
		ChairsCost:    decimal.NewFromInt(25000),
		FoodCost:      decimal.Zero,
		EventCost:     decimal.NewFromInt(20000),
		TotalCost:     decimal.NewFromInt(45000),
		Status:        model.StatusPending,
	}
}

func TestBookingRepo_InsertAndGet(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)
	ctx := context.Background()

	b := f.booking()
	err := repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		return repo.InsertTx(ctx, tx, b)
	})
	require.NoError(t, err)
	require.NotZero(t, b.ID)

	got, err := repo.GetByID(ctx, f.db, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-12-01", got.EventDate)
	assert.Equal(t, "18:30:00", got.EventTime)
	assert.Equal(t, uint32(50), got.GuestsCount)
	assert.True(t, got.TotalCost.Equal(decimal.NewFromInt(45000)))
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestBookingRepo_GetByIDNotFound(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)

	_, err := repo.GetByID(context.Background(), f.db, 999)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)

	_, err = repo.GetDetail(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestBookingRepo_ItemsLifecycle(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)
	ctx := context.Background()

	b := f.booking()
	err := repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		if err := repo.InsertTx(ctx, tx, b); err != nil {
			return err
		}
		return repo.CreateItemsBulkTx(ctx, tx, b.ID, []uint64{f.soup, f.rice})
	})
	require.NoError(t, err)

	items, err := repo.Items(ctx, f.db, b.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Soup", items[0].MenuItemName)
	assert.Equal(t, uint32(300), items[0].PricePerHead)

	err = repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		return repo.DeleteItemsTx(ctx, tx, b.ID, []uint64{f.soup})
	})
	require.NoError(t, err)

	items, err = repo.Items(ctx, f.db, b.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, f.rice, items[0].MenuItemID)
}

func TestBookingRepo_DuplicateItemViolatesUniqueKey(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)
	ctx := context.Background()

	b := f.booking()
	err := repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		if err := repo.InsertTx(ctx, tx, b); err != nil {
			return err
		}
		return repo.CreateItemsBulkTx(ctx, tx, b.ID, []uint64{f.soup, f.soup})
	})
	require.Error(t, err)

	// the whole transaction rolled back
	assert.Equal(t, 0, dbtest.Count(t, f.db, "bookings"))
	assert.Equal(t, 0, dbtest.Count(t, f.db, "booking_menus"))
}

func TestBookingRepo_UpdateAndLock(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)
	ctx := context.Background()

	b := f.booking()
	require.NoError(t, repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		return repo.InsertTx(ctx, tx, b)
	}))

	err := repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		cur, err := repo.GetForUpdateTx(ctx, tx, b.ID)
		if err != nil {
			return err
		}
		cur.Status = model.StatusActive
		cur.GuestsCount = 10
		return repo.UpdateTx(ctx, tx, cur)
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, f.db, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
	assert.Equal(t, uint32(10), got.GuestsCount)

	err = repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		_, err := repo.GetForUpdateTx(ctx, tx, 12345)
		return err
	})
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestBookingRepo_ListAndDelete(t *testing.T) {
	f := newFixture(t)
	repo := repository.NewBookingRepo(f.db)
	ctx := context.Background()

	first, second := f.booking(), f.booking()
	second.Status = model.StatusRejected
	require.NoError(t, repository.RunInTx(ctx, f.db, func(tx *sql.Tx) error {
		if err := repo.InsertTx(ctx, tx, first); err != nil {
			return err
		}
		if err := repo.InsertTx(ctx, tx, second); err != nil {
			return err
		}
		return repo.CreateItemsBulkTx(ctx, tx, first.ID, []uint64{f.rice})
	}))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, "Royal Hall", all[1].VenueName)
	assert.Equal(t, "Wedding", all[1].EventTypeName)
	require.Len(t, all[1].MenuItems, 1)
	assert.Empty(t, all[0].MenuItems)

	rejected, err := repo.List(ctx, model.StatusRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, second.ID, rejected[0].ID)

	require.NoError(t, repo.Delete(ctx, first.ID))
	assert.Equal(t, 0, dbtest.Count(t, f.db, "booking_menus"))
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), repository.ErrBookingNotFound)
}
