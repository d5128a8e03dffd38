package conflict

import (
	"fmt"

	"github.com/iliyamo/stayboard/internal/model"
)

// Classify enumerates every overlap on roomID.  Bookings whose status is
// inert (refunded or cancellation requested) are dropped before any test.
// Two overlapping bookings form a Conflict when both are committed and a
// Risk when either is still waiting for payment.  A booking overlapping a
// hold is always a Risk because holds can be released unilaterally.
//
// Scanning is quadratic in the number of active bookings on the room,
// which stays in the tens.  The returned slice is never nil.
func Classify(bookings []model.Booking, holds []model.Hold, roomID string) []Record {
	active := activeBookings(bookings, roomID)
	blocked := roomHolds(holds, roomID)
	records := make([]Record, 0)

	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if !Overlaps(BookingRange(a), BookingRange(b)) {
				continue
			}
			sev := Conflict
			if a.Status == model.StatusPaymentPending || b.Status == model.StatusPaymentPending {
				sev = Risk
			}
			bb := b
			records = append(records, Record{
				Severity:    sev,
				RoomID:      roomID,
				BookingA:    a,
				BookingB:    &bb,
				Description: describePair(sev, a, b),
			})
		}
	}

	for _, bk := range active {
		for _, h := range blocked {
			if !Overlaps(BookingRange(bk), HoldRange(h)) {
				continue
			}
			hh := h
			records = append(records, Record{
				Severity:    Risk,
				RoomID:      roomID,
				BookingA:    bk,
				Hold:        &hh,
				Description: describeHold(bk, h),
			})
		}
	}
	return records
}

// ClassifyAll runs Classify for every room that has at least one booking
// or hold and concatenates the results in first-appearance order.
func ClassifyAll(bookings []model.Booking, holds []model.Hold) []Record {
	records := make([]Record, 0)
	for _, roomID := range roomIDs(bookings, holds) {
		records = append(records, Classify(bookings, holds, roomID)...)
	}
	return records
}

// Highest returns the worst severity among records, Normal when empty.
func Highest(records []Record) Severity {
	worst := Normal
	for _, r := range records {
		worst = Worst(worst, r.Severity)
	}
	return worst
}

// Active reports whether b can take part in an overlap.
func Active(b model.Booking) bool { return !b.Status.Inert() }

func activeBookings(bookings []model.Booking, roomID string) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.RoomID == roomID && Active(b) {
			out = append(out, b)
		}
	}
	return out
}

func roomHolds(holds []model.Hold, roomID string) []model.Hold {
	out := make([]model.Hold, 0, len(holds))
	for _, h := range holds {
		if h.RoomID == roomID {
			out = append(out, h)
		}
	}
	return out
}

func roomIDs(bookings []model.Booking, holds []model.Hold) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, b := range bookings {
		add(b.RoomID)
	}
	for _, h := range holds {
		add(h.RoomID)
	}
	return ids
}

func describePair(sev Severity, a, b model.Booking) string {
	if sev == Risk {
		return fmt.Sprintf("unconfirmed booking involved: %s(%s) and %s(%s) overlap",
			a.ID, BookingRange(a), b.ID, BookingRange(b))
	}
	return fmt.Sprintf("double booking: %s(%s) and %s(%s) collide",
		a.ID, BookingRange(a), b.ID, BookingRange(b))
}

func describeHold(b model.Booking, h model.Hold) string {
	return fmt.Sprintf("hold collision: %s(%s) and hold %s(%s, %s) overlap",
		b.ID, BookingRange(b), h.ID, HoldRange(h), h.Reason.Label())
}
