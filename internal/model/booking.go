package model

import "time"

// BookingStatus is the lifecycle state of an accommodation booking.
type BookingStatus string

const (
	StatusPaymentPending        BookingStatus = "PAYMENT_PENDING"
	StatusPaymentComplete       BookingStatus = "PAYMENT_COMPLETE"
	StatusConfirmed             BookingStatus = "CONFIRMED"
	StatusCancellationRequested BookingStatus = "CANCELLATION_REQUESTED"
	StatusRefunded              BookingStatus = "REFUNDED"
	StatusCompleted             BookingStatus = "COMPLETED"
	StatusNoShow                BookingStatus = "NO_SHOW"
)

var bookingStatusLabels = map[BookingStatus]string{
	StatusPaymentPending:        "결제대기",
	StatusPaymentComplete:       "결제완료",
	StatusConfirmed:             "예약확정",
	StatusCancellationRequested: "취소요청",
	StatusRefunded:              "환불완료",
	StatusCompleted:             "이용완료",
	StatusNoShow:                "노쇼",
}

// Label returns the dashboard label for the status.
func (s BookingStatus) Label() string { return bookingStatusLabels[s] }

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	_, ok := bookingStatusLabels[s]
	return ok
}

// Inert reports whether a booking in this status can no longer take part
// in a calendar overlap.  Cancellation requests are treated as inert even
// before the refund is finalized.
func (s BookingStatus) Inert() bool {
	return s == StatusRefunded || s == StatusCancellationRequested
}

// Channel tells whether a booking arrived through automatic platform
// ingestion or was keyed in by staff.
type Channel string

const (
	ChannelAuto   Channel = "AUTO"
	ChannelManual Channel = "MANUAL"
)

var channelLabels = map[Channel]string{
	ChannelAuto:   "자동",
	ChannelManual: "수동",
}

func (c Channel) Label() string { return channelLabels[c] }

func (c Channel) Valid() bool {
	_, ok := channelLabels[c]
	return ok
}

// Source is the sales source of a booking.
type Source string

const (
	SourcePlatform    Source = "PLATFORM"
	SourcePhone       Source = "PHONE"
	SourceWalkIn      Source = "WALK_IN"
	SourceExternalOTA Source = "EXTERNAL_OTA"
)

var sourceLabels = map[Source]string{
	SourcePlatform:    "플랫폼",
	SourcePhone:       "전화",
	SourceWalkIn:      "현장",
	SourceExternalOTA: "외부OTA",
}

func (s Source) Label() string { return sourceLabels[s] }

func (s Source) Valid() bool {
	_, ok := sourceLabels[s]
	return ok
}

// Booking is a date-ranged stay on one room.  CheckIn and CheckOut are
// ISO calendar dates (YYYY-MM-DD) forming the half-open range
// [CheckIn, CheckOut): the check-out day itself is free for the next
// guest.  Bookings are never deleted; their lifecycle ends when Status
// reaches a terminal value.
//
// Fields:
//
//	ID          – caller generated identifier (ACM-2026-00001).
//	RoomID      – room being occupied.
//	CheckIn     – first night.
//	CheckOut    – departure day, excluded from the stay.
//	GuestName   – lead guest.
//	Phone       – guest contact.
//	GuestCount  – base occupants.
//	ExtraGuests – additional occupants.
//	Amount      – total amount in KRW.
//	Status      – lifecycle state.
//	Channel     – automatic or manual entry.
//	Source      – platform, phone, walk-in or external OTA.
//	Memo        – free text.
//	CreatedAt   – creation timestamp.
type Booking struct {
	ID          string        `json:"id"`           // bookings.id
	RoomID      string        `json:"room_id"`      // bookings.room_id
	CheckIn     string        `json:"check_in"`     // bookings.check_in
	CheckOut    string        `json:"check_out"`    // bookings.check_out
	GuestName   string        `json:"guest_name"`   // bookings.guest_name
	Phone       string        `json:"phone"`        // bookings.phone
	GuestCount  int           `json:"guest_count"`  // bookings.guest_count
	ExtraGuests int           `json:"extra_guests"` // bookings.extra_guests
	Amount      int64         `json:"amount"`       // bookings.amount
	Status      BookingStatus `json:"status"`       // bookings.status
	Channel     Channel       `json:"channel"`      // bookings.channel
	Source      Source        `json:"source"`       // bookings.source
	Memo        string        `json:"memo"`         // bookings.memo
	CreatedAt   time.Time     `json:"created_at"`   // bookings.created_at
}
