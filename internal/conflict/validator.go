package conflict

import "github.com/iliyamo/stayboard/internal/model"

// Candidate is a proposed stay checked before a booking is created or
// moved.  ExcludeBookingID leaves one booking out of the snapshot so an
// existing booking can be re-checked against everything else on its room.
type Candidate struct {
	RoomID           string `json:"room_id"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	ExcludeBookingID string `json:"exclude_booking_id,omitempty"`
}

// Range returns the candidate stay.
func (c Candidate) Range() Range { return Range{Start: c.CheckIn, End: c.CheckOut} }

// EntityKind tags what a candidate would overlap.
type EntityKind string

const (
	KindBooking EntityKind = "booking"
	KindHold    EntityKind = "hold"
)

// Overlap is one entity a candidate would collide with.
type Overlap struct {
	Kind    EntityKind     `json:"kind"`
	Booking *model.Booking `json:"booking,omitempty"`
	Hold    *model.Hold    `json:"hold,omitempty"`
}

// ValidationResult is the advisory verdict for a Candidate.  It stays
// bound to the candidate it was computed for; once the room or dates
// change the result is stale and validation must run again.
type ValidationResult struct {
	Candidate Candidate `json:"candidate"`
	Severity  Severity  `json:"severity"`
	Conflicts []Overlap `json:"conflicts"`
}

// StaleFor reports whether r was computed for different inputs than c.
func (r ValidationResult) StaleFor(c Candidate) bool {
	return r.Candidate.RoomID != c.RoomID ||
		r.Candidate.CheckIn != c.CheckIn ||
		r.Candidate.CheckOut != c.CheckOut ||
		r.Candidate.ExcludeBookingID != c.ExcludeBookingID
}

// CheckNewBooking reports what c would overlap on its room without
// touching the snapshot.  The verdict is Normal when nothing overlaps,
// Conflict when any overlapping booking is confirmed and Risk otherwise
// (only pending or paid bookings and holds).  The verdict is advisory: an
// operator may still proceed and accept the disclosed risk.
func CheckNewBooking(bookings []model.Booking, holds []model.Hold, c Candidate) ValidationResult {
	res := ValidationResult{Candidate: c, Severity: Normal, Conflicts: make([]Overlap, 0)}
	want := c.Range()

	confirmed := false
	for _, b := range activeBookings(bookings, c.RoomID) {
		if c.ExcludeBookingID != "" && b.ID == c.ExcludeBookingID {
			continue
		}
		if !Overlaps(want, BookingRange(b)) {
			continue
		}
		bb := b
		res.Conflicts = append(res.Conflicts, Overlap{Kind: KindBooking, Booking: &bb})
		if b.Status == model.StatusConfirmed {
			confirmed = true
		}
	}
	for _, h := range roomHolds(holds, c.RoomID) {
		if !Overlaps(want, HoldRange(h)) {
			continue
		}
		hh := h
		res.Conflicts = append(res.Conflicts, Overlap{Kind: KindHold, Hold: &hh})
	}

	switch {
	case len(res.Conflicts) == 0:
		res.Severity = Normal
	case confirmed:
		res.Severity = Conflict
	default:
		res.Severity = Risk
	}
	return res
}
