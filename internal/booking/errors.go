package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Husnain-278/EventHub/internal/repository"
)

var (
	// ErrReference matches any *ValidationError: a venue, event type or
	// menu item that does not exist or cannot be booked.
	ErrReference = errors.New("booking: invalid reference")

	// ErrConsistencyViolation is returned when a caller tries to write
	// one of the derived cost fields.
	ErrConsistencyViolation = errors.New("booking: cost fields are computed and cannot be set")

	// ErrInvalidStatus is returned for a status outside Pending, Active
	// and Rejected.
	ErrInvalidStatus = errors.New("booking: invalid status")
)

// DerivedFields are the request keys that map to computed columns.
var DerivedFields = []string{"chairs_cost", "food_cost", "event_cost", "total_cost"}

// Problem describes one rejected input.
type Problem struct {
	Field  string `json:"field"`
	ID     uint64 `json:"id,omitempty"`
	Reason string `json:"reason"`
}

// ValidationError lists every problem found before any write happened.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.ID != 0 {
			parts = append(parts, fmt.Sprintf("%s %d: %s", p.Field, p.ID, p.Reason))
		} else {
			parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Reason))
		}
	}
	return "booking: validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrReference }

func (e *ValidationError) add(field string, id uint64, reason string) {
	e.Problems = append(e.Problems, Problem{Field: field, ID: id, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

// StorageError wraps a database failure together with the step that
// failed.  The surrounding transaction has been rolled back by the time
// a caller sees it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "booking: " + e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// storageErr wraps err unless it is nil, already a *StorageError or
// one of the client-facing errors, which pass through unchanged.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) ||
		errors.Is(err, ErrReference) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrConsistencyViolation) ||
		errors.Is(err, repository.ErrBookingNotFound) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// RejectDerivedFields returns ErrConsistencyViolation when the decoded
// request object carries any of DerivedFields.
func RejectDerivedFields(fields map[string]json.RawMessage) error {
	var found []string
	for _, k := range DerivedFields {
		if _, ok := fields[k]; ok {
			found = append(found, k)
		}
	}
	if len(found) == 0 {
		return nil
	}
	sort.Strings(found)
	return fmt.Errorf("%w: %s", ErrConsistencyViolation, strings.Join(found, ", "))
}
