package booking

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Husnain-278/EventHub/internal/pricing"
	"github.com/Husnain-278/EventHub/internal/repository"
)

// Store persists aggregates.  Every write goes through PersistTx, which
// recalculates the costs immediately before the row is written.
type Store struct {
	bookings *repository.BookingRepo
	catalog  *repository.CatalogRepo
}

// NewStore builds a Store on top of the booking and catalog repositories.
func NewStore(bookings *repository.BookingRepo, catalog *repository.CatalogRepo) *Store {
	if bookings == nil || catalog == nil {
		panic("nil repository passed to NewStore")
	}
	return &Store{bookings: bookings, catalog: catalog}
}

// Persist writes a in its own transaction.
func (s *Store) Persist(ctx context.Context, a *Aggregate) error {
	return repository.RunInTx(ctx, s.bookings.DB(), func(tx *sql.Tx) error {
		return s.PersistTx(ctx, tx, a)
	})
}

// PersistTx recalculates a and inserts it (ID == 0) or updates it.
// On insert the generated id is set on a.Booking.  A total above
// pricing.MaxAmount is a ValidationError and nothing is written.
func (s *Store) PersistTx(ctx context.Context, tx *sql.Tx, a *Aggregate) error {
	a.Recalculate()
	if a.Booking.TotalCost.GreaterThan(pricing.MaxAmount) {
		verr := &ValidationError{}
		verr.add("total_cost", 0, "exceeds "+pricing.MaxAmount.StringFixed(pricing.Places))
		return verr
	}
	if a.Booking.ID == 0 {
		return storageErr("insert booking", s.bookings.InsertTx(ctx, tx, &a.Booking))
	}
	return storageErr("update booking", s.bookings.UpdateTx(ctx, tx, &a.Booking))
}

// LoadTx locks the booking row for the rest of tx and loads the
// aggregate.  It returns repository.ErrBookingNotFound unwrapped.
func (s *Store) LoadTx(ctx context.Context, tx *sql.Tx, id uint64) (*Aggregate, error) {
	b, err := s.bookings.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, err
		}
		return nil, storageErr("lock booking", err)
	}
	a := &Aggregate{Booking: *b}
	if err := s.resolveTx(ctx, tx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Load reads an aggregate without taking a lock.
func (s *Store) Load(ctx context.Context, id uint64) (*Aggregate, error) {
	db := s.bookings.DB()
	b, err := s.bookings.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return nil, err
		}
		return nil, storageErr("load booking", err)
	}
	a := &Aggregate{Booking: *b}
	v, err := s.catalog.VenueByID(ctx, db, b.VenueID)
	if err != nil {
		return nil, storageErr("load venue", err)
	}
	et, err := s.catalog.EventTypeByID(ctx, db, b.EventTypeID)
	if err != nil {
		return nil, storageErr("load event type", err)
	}
	items, err := s.bookings.Items(ctx, db, b.ID)
	if err != nil {
		return nil, storageErr("load items", err)
	}
	a.Venue, a.EventType, a.Items = *v, *et, items
	return a, nil
}

// resolveTx fills in the venue, event type and items of a.
func (s *Store) resolveTx(ctx context.Context, tx *sql.Tx, a *Aggregate) error {
	v, err := s.catalog.VenueByID(ctx, tx, a.Booking.VenueID)
	if err != nil {
		return storageErr("load venue", err)
	}
	et, err := s.catalog.EventTypeByID(ctx, tx, a.Booking.EventTypeID)
	if err != nil {
		return storageErr("load event type", err)
	}
	a.Venue, a.EventType = *v, *et
	return s.reloadItemsTx(ctx, tx, a)
}

// reloadItemsTx replaces a.Items with the rows currently visible in tx.
func (s *Store) reloadItemsTx(ctx context.Context, tx *sql.Tx, a *Aggregate) error {
	items, err := s.bookings.Items(ctx, tx, a.Booking.ID)
	if err != nil {
		return storageErr("load items", err)
	}
	a.Items = items
	return nil
}
