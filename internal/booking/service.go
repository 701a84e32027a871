package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/Husnain-278/EventHub/internal/metrics"
	"github.com/Husnain-278/EventHub/internal/model"
	"github.com/Husnain-278/EventHub/internal/repository"
)

// Notifier receives committed bookings.  Implementations should return
// quickly; the service calls it after commit and never lets its error
// or panic reach the caller.
type Notifier interface {
	Notify(ctx context.Context, kind model.EventKind, snap model.BookingSnapshot) error
}

// CreateInput carries the client-writable attributes of a new booking.
type CreateInput struct {
	VenueID       uint64
	EventTypeID   uint64
	CustomerName  string
	CustomerEmail string
	EventDate     string
	EventTime     string
	GuestsCount   uint32
	MenuItemIDs   []uint64
}

// UpdateInput carries the scalar attributes an administrator may edit
// on an existing booking.  Nil fields are left unchanged.
type UpdateInput struct {
	VenueID       *uint64
	EventTypeID   *uint64
	CustomerName  *string
	CustomerEmail *string
	EventDate     *string
	EventTime     *string
	GuestsCount   *uint32
}

// Service runs the booking workflows.  Each workflow is one database
// transaction; notifications go out only after it committed.
type Service struct {
	store    *Store
	bookings *repository.BookingRepo
	catalog  *repository.CatalogRepo
	notifier Notifier
	logger   *log.Logger
	metrics  *metrics.Metrics
}

// NewService wires a Service.  notifier and m may be nil.
func NewService(bookings *repository.BookingRepo, catalog *repository.CatalogRepo, notifier Notifier, logger *log.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = log.New("booking")
	}
	return &Service{
		store:    NewStore(bookings, catalog),
		bookings: bookings,
		catalog:  catalog,
		notifier: notifier,
		logger:   logger,
		metrics:  m,
	}
}

// Create validates the references, inserts the booking, attaches the
// deduplicated menu items in one batch and persists the recomputed
// costs, all in a single transaction.  Nothing is written when any step
// fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Aggregate, error) {
	menuIDs := dedup(in.MenuItemIDs)
	name, email := strings.TrimSpace(in.CustomerName), strings.TrimSpace(in.CustomerEmail)
	clock, err := normalizeInput(name, email, in.EventDate, in.EventTime, in.GuestsCount)
	if err != nil {
		return nil, err
	}

	a := &Aggregate{Booking: model.Booking{
		VenueID:       in.VenueID,
		EventTypeID:   in.EventTypeID,
		CustomerName:  name,
		CustomerEmail: email,
		EventDate:     in.EventDate,
		EventTime:     clock,
		GuestsCount:   in.GuestsCount,
		Status:        model.StatusPending,
	}}

	err = repository.RunInTx(ctx, s.bookings.DB(), func(tx *sql.Tx) error {
		if err := s.resolveRefsTx(ctx, tx, a, true, menuIDs, nil); err != nil {
			return err
		}
		// first write: no line items yet, so food cost is zero
		if err := s.store.PersistTx(ctx, tx, a); err != nil {
			return err
		}
		if err := s.bookings.CreateItemsBulkTx(ctx, tx, a.Booking.ID, menuIDs); err != nil {
			return storageErr("attach menu items", err)
		}
		if err := s.store.reloadItemsTx(ctx, tx, a); err != nil {
			return err
		}
		return s.store.PersistTx(ctx, tx, a)
	})
	if err != nil {
		return nil, storageErr("commit", err)
	}

	s.metrics.BookingCreated()
	s.logger.Infoj(log.JSON{
		"msg":        "booking created",
		"booking_id": a.Booking.ID,
		"items":      len(a.Items),
		"total_cost": a.Booking.TotalCost.StringFixed(2),
	})
	s.notify(ctx, model.EventCreated, a.Snapshot())
	return a, nil
}

// SetStatus moves one booking to status and persists it; the costs are
// recomputed on the way.  A notification is sent when the status
// actually changed.
func (s *Service) SetStatus(ctx context.Context, id uint64, status model.BookingStatus) (*Aggregate, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	var (
		a       *Aggregate
		changed bool
	)
	err := repository.RunInTx(ctx, s.bookings.DB(), func(tx *sql.Tx) error {
		var err error
		if a, err = s.store.LoadTx(ctx, tx, id); err != nil {
			return err
		}
		changed = a.Booking.Status != status
		a.Booking.Status = status
		return s.store.PersistTx(ctx, tx, a)
	})
	if err != nil {
		return nil, storageErr("commit", err)
	}
	if changed {
		s.statusChanged(ctx, a)
	}
	return a, nil
}

// SetStatusBulk applies status to every booking in ids inside one
// transaction.  Ids that do not exist are skipped.  It returns the
// number of bookings persisted.
func (s *Service) SetStatusBulk(ctx context.Context, ids []uint64, status model.BookingStatus) (int, error) {
	if !status.Valid() {
		return 0, ErrInvalidStatus
	}
	var changed []*Aggregate
	updated := 0
	err := repository.RunInTx(ctx, s.bookings.DB(), func(tx *sql.Tx) error {
		for _, id := range dedup(ids) {
			a, err := s.store.LoadTx(ctx, tx, id)
			if errors.Is(err, repository.ErrBookingNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if a.Booking.Status != status {
				changed = append(changed, a)
			}
			a.Booking.Status = status
			if err := s.store.PersistTx(ctx, tx, a); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, storageErr("commit", err)
	}
	for _, a := range changed {
		s.statusChanged(ctx, a)
	}
	return updated, nil
}

// ReplaceMenuItems makes menuItemIDs the exact line-item set of the
// booking.  Items being added must exist and be available; items kept
// from the current set only need to exist.  Costs are recomputed after
// the new set is durable within the transaction.
func (s *Service) ReplaceMenuItems(ctx context.Context, id uint64, menuItemIDs []uint64) (*Aggregate, error) {
	want := dedup(menuItemIDs)
	var a *Aggregate
	err := repository.RunInTx(ctx, s.bookings.DB(), func(tx *sql.Tx) error {
		var err error
		if a, err = s.store.LoadTx(ctx, tx, id); err != nil {
			return err
		}
		current := make(map[uint64]bool, len(a.Items))
		for _, it := range a.Items {
			current[it.MenuItemID] = true
		}
		if err := s.checkMenuItemsTx(ctx, tx, want, current); err != nil {
			return err
		}

		keep := make(map[uint64]bool, len(want))
		var add []uint64
		for _, mid := range want {
			keep[mid] = true
			if !current[mid] {
				add = append(add, mid)
			}
		}
		var drop []uint64
		for _, mid := range a.MenuItemIDs() {
			if !keep[mid] {
				drop = append(drop, mid)
			}
		}
		if err := s.bookings.DeleteItemsTx(ctx, tx, id, drop); err != nil {
			return storageErr("detach menu items", err)
		}
		if err := s.bookings.CreateItemsBulkTx(ctx, tx, id, add); err != nil {
			return storageErr("attach menu items", err)
		}
		if err := s.store.reloadItemsTx(ctx, tx, a); err != nil {
			return err
		}
		return s.store.PersistTx(ctx, tx, a)
	})
	if err != nil {
		return nil, storageErr("commit", err)
	}
	return a, nil
}

// Update edits the scalar attributes of a booking and persists the
// recomputed costs.  A venue that changes must be active.
func (s *Service) Update(ctx context.Context, id uint64, in UpdateInput) (*Aggregate, error) {
	var a *Aggregate
	err := repository.RunInTx(ctx, s.bookings.DB(), func(tx *sql.Tx) error {
		var err error
		if a, err = s.store.LoadTx(ctx, tx, id); err != nil {
			return err
		}
		b := &a.Booking
		venueChanged := in.VenueID != nil && *in.VenueID != b.VenueID
		if in.VenueID != nil {
			b.VenueID = *in.VenueID
		}
		if in.EventTypeID != nil {
			b.EventTypeID = *in.EventTypeID
		}
		if in.CustomerName != nil {
			b.CustomerName = strings.TrimSpace(*in.CustomerName)
		}
		if in.CustomerEmail != nil {
			b.CustomerEmail = strings.TrimSpace(*in.CustomerEmail)
		}
		if in.EventDate != nil {
			b.EventDate = *in.EventDate
		}
		if in.EventTime != nil {
			b.EventTime = *in.EventTime
		}
		if in.GuestsCount != nil {
			b.GuestsCount = *in.GuestsCount
		}
		clock, err := normalizeInput(b.CustomerName, b.CustomerEmail, b.EventDate, b.EventTime, b.GuestsCount)
		if err != nil {
			return err
		}
		b.EventTime = clock
		if err := s.resolveRefsTx(ctx, tx, a, venueChanged, nil, nil); err != nil {
			return err
		}
		return s.store.PersistTx(ctx, tx, a)
	})
	if err != nil {
		return nil, storageErr("commit", err)
	}
	return a, nil
}

// Delete removes a booking and, through the foreign key, its items.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	err := s.bookings.Delete(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return err
	}
	return storageErr("delete booking", err)
}

// resolveRefsTx loads the venue and event type of a and checks the
// requested menu items.  All problems are reported together.
func (s *Service) resolveRefsTx(ctx context.Context, tx *sql.Tx, a *Aggregate, requireActive bool, menuIDs []uint64, current map[uint64]bool) error {
	verr := &ValidationError{}
	v, err := s.catalog.VenueByID(ctx, tx, a.Booking.VenueID)
	switch {
	case errors.Is(err, repository.ErrVenueNotFound):
		verr.add("venue", a.Booking.VenueID, "does not exist")
	case err != nil:
		return storageErr("load venue", err)
	case requireActive && !v.IsActive:
		verr.add("venue", v.ID, "is not active")
	default:
		a.Venue = *v
	}
	et, err := s.catalog.EventTypeByID(ctx, tx, a.Booking.EventTypeID)
	switch {
	case errors.Is(err, repository.ErrEventTypeNotFound):
		verr.add("event_type", a.Booking.EventTypeID, "does not exist")
	case err != nil:
		return storageErr("load event type", err)
	default:
		a.EventType = *et
	}
	if err := s.checkMenuItemsTx(ctx, tx, menuIDs, current); err != nil {
		mv, ok := err.(*ValidationError)
		if !ok {
			return err
		}
		verr.Problems = append(verr.Problems, mv.Problems...)
	}
	return verr.orNil()
}

// checkMenuItemsTx verifies every id exists and, unless already
// attached (current), is available.
func (s *Service) checkMenuItemsTx(ctx context.Context, tx *sql.Tx, ids []uint64, current map[uint64]bool) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.catalog.MenuItemsByIDs(ctx, tx, ids)
	if err != nil {
		return storageErr("load menu items", err)
	}
	verr := &ValidationError{}
	for _, id := range ids {
		it, ok := found[id]
		switch {
		case !ok:
			verr.add("menu_items", id, "does not exist")
		case !it.IsAvailable && !current[id]:
			verr.add("menu_items", id, "is not available")
		}
	}
	return verr.orNil()
}

func (s *Service) statusChanged(ctx context.Context, a *Aggregate) {
	s.metrics.StatusChanged(string(a.Booking.Status))
	s.logger.Infoj(log.JSON{
		"msg":        "booking status changed",
		"booking_id": a.Booking.ID,
		"status":     string(a.Booking.Status),
	})
	s.notify(ctx, model.EventStatusChanged, a.Snapshot())
}

// notify hands snap to the notifier.  Errors and panics are logged and
// counted; they never reach the caller.
func (s *Service) notify(ctx context.Context, kind model.EventKind, snap model.BookingSnapshot) {
	if s.notifier == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.metrics.NotificationFailed(string(kind), "panic")
			s.logger.Errorj(log.JSON{
				"msg":        "notification panicked",
				"kind":       string(kind),
				"booking_id": snap.BookingID,
				"panic":      fmt.Sprint(r),
			})
		}
	}()
	if err := s.notifier.Notify(context.WithoutCancel(ctx), kind, snap); err != nil {
		s.metrics.NotificationFailed(string(kind), "dispatch")
		s.logger.Warnj(log.JSON{
			"msg":        "notification failed",
			"kind":       string(kind),
			"booking_id": snap.BookingID,
			"error":      err.Error(),
		})
	}
}

// dedup drops repeated ids, keeping the first occurrence order.
func dedup(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// normalizeInput checks the scalar attributes and returns the event
// time as HH:MM:SS.  HH:MM is accepted.  name and email are expected
// trimmed.
func normalizeInput(name, email, date, clock string, guests uint32) (string, error) {
	verr := &ValidationError{}
	if name == "" {
		verr.add("customer_name", 0, "must not be blank")
	}
	if email == "" {
		verr.add("customer_email", 0, "must not be blank")
	}
	if _, err := time.Parse(repository.DateLayout, date); err != nil {
		verr.add("event_date", 0, "must be YYYY-MM-DD")
	}
	normalized := ""
	if t, err := time.Parse(repository.ClockLayout, clock); err == nil {
		normalized = t.Format(repository.ClockLayout)
	} else if t, err := time.Parse("15:04", clock); err == nil {
		normalized = t.Format(repository.ClockLayout)
	} else {
		verr.add("event_time", 0, "must be HH:MM or HH:MM:SS")
	}
	if guests == 0 {
		verr.add("guests_count", 0, "must be positive")
	}
	return normalized, verr.orNil()
}
