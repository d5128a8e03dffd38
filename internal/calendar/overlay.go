package calendar

import (
	"github.com/iliyamo/stayboard/internal/conflict"
	"github.com/iliyamo/stayboard/internal/model"
)

// ChannelView restricts which bookings the calendar shows.
type ChannelView string

const (
	ViewAll    ChannelView = "all"
	ViewAuto   ChannelView = "auto"
	ViewManual ChannelView = "manual"
)

// Valid reports whether v is a known view.
func (v ChannelView) Valid() bool {
	return v == ViewAll || v == ViewAuto || v == ViewManual
}

// AllRooms selects every room in an overlay.
const AllRooms = "all"

// OverlayInput is the snapshot an overlay is computed from.  Records must
// be the classifier output for the same rooms as RoomID selects.
type OverlayInput struct {
	Bookings   []model.Booking
	Holds      []model.Hold
	Records    []conflict.Record
	RoomID     string
	Channel    ChannelView
	Today      string
	SoonWithin int
}

// Day is a grid cell decorated with what happens on it.
type Day struct {
	Cell
	Bookings     []model.Booking   `json:"bookings"`
	Holds        []model.Hold      `json:"holds"`
	Severity     conflict.Severity `json:"severity"`
	HasCheckIn   bool              `json:"has_check_in"`
	HasCheckOut  bool              `json:"has_check_out"`
	IsToday      bool              `json:"is_today"`
	ArrivingSoon []string          `json:"arriving_soon"`
}

// Overlay decorates cells with the bookings and holds covering each day,
// arrival and departure markers and the day's conflict severity.
func Overlay(cells []Cell, in OverlayInput) []Day {
	bookings := filterBookings(in.Bookings, in.RoomID, in.Channel)
	holds := filterHolds(in.Holds, in.RoomID)

	days := make([]Day, 0, len(cells))
	for _, c := range cells {
		d := Day{
			Cell:         c,
			Bookings:     conflict.BookingsOn(bookings, c.Date),
			Holds:        conflict.HoldsOn(holds, c.Date),
			Severity:     conflict.DateSeverity(in.Records, c.Date),
			IsToday:      in.Today != "" && c.Date == in.Today,
			ArrivingSoon: make([]string, 0),
		}
		for _, b := range bookings {
			if b.CheckIn == c.Date {
				d.HasCheckIn = true
			}
			if b.CheckOut == c.Date {
				d.HasCheckOut = true
			}
		}
		if in.Today != "" {
			for _, b := range d.Bookings {
				if conflict.CheckInSoon(b, in.Today, in.SoonWithin) {
					d.ArrivingSoon = append(d.ArrivingSoon, b.ID)
				}
			}
		}
		days = append(days, d)
	}
	return days
}

func filterBookings(bookings []model.Booking, roomID string, view ChannelView) []model.Booking {
	out := make([]model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if roomID != "" && roomID != AllRooms && b.RoomID != roomID {
			continue
		}
		switch view {
		case ViewAuto:
			if b.Channel != model.ChannelAuto {
				continue
			}
		case ViewManual:
			if b.Channel != model.ChannelManual {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

func filterHolds(holds []model.Hold, roomID string) []model.Hold {
	if roomID == "" || roomID == AllRooms {
		return holds
	}
	out := make([]model.Hold, 0, len(holds))
	for _, h := range holds {
		if h.RoomID == roomID {
			out = append(out, h)
		}
	}
	return out
}
