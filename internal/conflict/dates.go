package conflict

import (
	"time"

	"github.com/iliyamo/stayboard/internal/model"
)

// DateSeverity grades a single day from classifier output.  Only records
// whose two sides both cover date count, and a Conflict on the day wins
// over any Risk.  Normal means no overlap falls on date.
func DateSeverity(records []Record, date string) Severity {
	worst := Normal
	for _, r := range records {
		if !r.collidesOn(date) {
			continue
		}
		if r.Severity == Conflict {
			return Conflict
		}
		worst = Worst(worst, r.Severity)
	}
	return worst
}

// LevelFilter narrows a conflict list the way the desk's filter tabs do.
type LevelFilter string

const (
	LevelAll      LevelFilter = "all"
	LevelConflict LevelFilter = "conflict"
	LevelRisk     LevelFilter = "risk"
	LevelHold     LevelFilter = "hold"
)

// Valid reports whether f is a known filter.
func (f LevelFilter) Valid() bool {
	switch f {
	case LevelAll, LevelConflict, LevelRisk, LevelHold:
		return true
	}
	return false
}

// Filter selects records by level and, when Date is set, by whether any
// of their entities covers that day.
type Filter struct {
	Level LevelFilter
	Date  string
}

// Apply returns the records matching f.  The returned slice is never nil.
func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		switch f.Level {
		case LevelConflict:
			if r.Severity != Conflict {
				continue
			}
		case LevelRisk:
			if r.Severity != Risk {
				continue
			}
		case LevelHold:
			if !r.InvolvesHold() {
				continue
			}
		}
		if f.Date != "" && !r.Touches(f.Date) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// BookingsOn returns the bookings whose stay covers date, inert ones
// included, since the calendar still shows them.
func BookingsOn(bookings []model.Booking, date string) []model.Booking {
	out := make([]model.Booking, 0)
	for _, b := range bookings {
		if BookingRange(b).Covers(date) {
			out = append(out, b)
		}
	}
	return out
}

// HoldsOn returns the holds covering date.
func HoldsOn(holds []model.Hold, date string) []model.Hold {
	out := make([]model.Hold, 0)
	for _, h := range holds {
		if HoldRange(h).Covers(date) {
			out = append(out, h)
		}
	}
	return out
}

// TodayStats counts the day's arrivals and departures.
type TodayStats struct {
	CheckIns  int `json:"check_ins"`
	CheckOuts int `json:"check_outs"`
}

// TodayCheckInOut counts active bookings arriving or leaving on today.
func TodayCheckInOut(bookings []model.Booking, today string) TodayStats {
	var s TodayStats
	for _, b := range bookings {
		if !Active(b) {
			continue
		}
		if b.CheckIn == today {
			s.CheckIns++
		}
		if b.CheckOut == today {
			s.CheckOuts++
		}
	}
	return s
}

// CheckInSoon reports whether b arrives between today and windowDays
// days later, both ends inclusive.  Malformed dates never match.
func CheckInSoon(b model.Booking, today string, windowDays int) bool {
	in, err := time.Parse(DateLayout, b.CheckIn)
	if err != nil {
		return false
	}
	t, err := time.Parse(DateLayout, today)
	if err != nil {
		return false
	}
	days := int(in.Sub(t).Hours() / 24)
	return !in.Before(t) && days <= windowDays
}

// Nights returns the number of nights in r, zero when r is malformed.
func Nights(r Range) int {
	in, err := time.Parse(DateLayout, r.Start)
	if err != nil {
		return 0
	}
	out, err := time.Parse(DateLayout, r.End)
	if err != nil {
		return 0
	}
	n := int(out.Sub(in).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}
