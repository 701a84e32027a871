package repository

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used for bookings.event_date and bookings.event_time.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04:05"
)

// dateColumn scans DATE values.  MySQL with parseTime returns
// time.Time while SQLite returns the stored text.
type dateColumn struct{ s *string }

func (d dateColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d.s = v.Format(DateLayout)
	case []byte:
		return d.Scan(string(v))
	case string:
		if len(v) < len(DateLayout) {
			return fmt.Errorf("repository: bad date %q", v)
		}
		*d.s = v[:len(DateLayout)]
	default:
		return fmt.Errorf("repository: cannot scan %T into date", src)
	}
	return nil
}

// clockColumn scans TIME values into HH:MM:SS.
type clockColumn struct{ s *string }

func (c clockColumn) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*c.s = v.Format(ClockLayout)
	case []byte:
		return c.Scan(string(v))
	case string:
		v = strings.TrimSpace(v)
		// SQLite may hand back a full timestamp; keep the clock part.
		if i := strings.LastIndexAny(v, " T"); i >= 0 {
			v = v[i+1:]
		}
		if len(v) == len("15:04") {
			v += ":00"
		}
		if len(v) < len(ClockLayout) {
			return fmt.Errorf("repository: bad time %q", v)
		}
		*c.s = v[:len(ClockLayout)]
	default:
		return fmt.Errorf("repository: cannot scan %T into time", src)
	}
	return nil
}
