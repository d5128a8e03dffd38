// Package conflict detects and grades calendar overlaps between bookings
// and holds on the same room.
//
// Every function in this package is pure: it works on the snapshot of
// bookings and holds passed in and keeps nothing between calls.  Callers
// own the canonical collections and must serialize mutations per room
// before asking for a judgment.
package conflict

import (
	"time"

	"github.com/iliyamo/stayboard/internal/model"
)

// DateLayout is the ISO calendar date layout used for every date in the
// desk.  Dates carry no time of day and no zone.
const DateLayout = "2006-01-02"

// Range is the half-open date interval [Start, End).
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Overlaps reports whether a and b share at least one day.  Ranges that
// merely touch (one ends on the day the other starts) do not overlap, so
// same-day turnover is valid.  Well-formed YYYY-MM-DD strings order the
// same way lexically and chronologically.
func Overlaps(a, b Range) bool {
	return a.Start < b.End && b.Start < a.End
}

// Covers reports whether date falls inside r.
func (r Range) Covers(date string) bool {
	return r.Start <= date && date < r.End
}

// Valid reports whether both ends are ISO dates and Start is before End.
func (r Range) Valid() bool {
	return IsISODate(r.Start) && IsISODate(r.End) && r.Start < r.End
}

func (r Range) String() string { return r.Start + "~" + r.End }

// BookingRange returns the stay of b.
func BookingRange(b model.Booking) Range { return Range{Start: b.CheckIn, End: b.CheckOut} }

// HoldRange returns the blocked interval of h.
func HoldRange(h model.Hold) Range { return Range{Start: h.StartDate, End: h.EndDate} }

// IsISODate reports whether s is a YYYY-MM-DD calendar date.
func IsISODate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
