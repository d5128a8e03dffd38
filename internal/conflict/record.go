package conflict

import (
	"strings"

	"github.com/iliyamo/stayboard/internal/model"
)

// Record describes one overlap found on a room: either two bookings
// (BookingB set) or a booking and a hold (Hold set).  Records are derived
// from the current snapshot and are recomputed rather than stored, so a
// record has no resolved flag.  A conflict is resolved when it no longer
// shows up in the next classification.
type Record struct {
	Severity    Severity       `json:"severity"`
	RoomID      string         `json:"room_id"`
	BookingA    model.Booking  `json:"booking_a"`
	BookingB    *model.Booking `json:"booking_b,omitempty"`
	Hold        *model.Hold    `json:"hold,omitempty"`
	Description string         `json:"description"`
}

// Key identifies the overlapping pair independently of the order in
// which the bookings were scanned, e.g. "room-01:ACM-2026-00002:ACM-2026-00003"
// or "room-03:ACM-2026-00010:hold:HOLD-001".
func (r Record) Key() string {
	if r.BookingB != nil {
		a, b := r.BookingA.ID, r.BookingB.ID
		if b < a {
			a, b = b, a
		}
		return strings.Join([]string{r.RoomID, a, b}, ":")
	}
	if r.Hold != nil {
		return strings.Join([]string{r.RoomID, r.BookingA.ID, "hold", r.Hold.ID}, ":")
	}
	return strings.Join([]string{r.RoomID, r.BookingA.ID}, ":")
}

// InvolvesHold reports whether the record pairs a booking with a hold.
func (r Record) InvolvesHold() bool { return r.Hold != nil }

// Touches reports whether any entity of the record covers date.
func (r Record) Touches(date string) bool {
	if BookingRange(r.BookingA).Covers(date) {
		return true
	}
	if r.BookingB != nil && BookingRange(*r.BookingB).Covers(date) {
		return true
	}
	return r.Hold != nil && HoldRange(*r.Hold).Covers(date)
}

// collidesOn reports whether both sides of the record cover date, i.e.
// whether the overlap itself falls on that day.
func (r Record) collidesOn(date string) bool {
	if !BookingRange(r.BookingA).Covers(date) {
		return false
	}
	if r.BookingB != nil && BookingRange(*r.BookingB).Covers(date) {
		return true
	}
	return r.Hold != nil && HoldRange(*r.Hold).Covers(date)
}
