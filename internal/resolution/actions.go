package resolution

import (
	"fmt"
	"time"

	"github.com/iliyamo/stayboard/internal/conflict"
	"github.com/iliyamo/stayboard/internal/model"
)

// Action is an operator action carried out by another system.  The desk
// only hands over the conflicting entities; it does not move bookings,
// refund guests or notify anyone itself.
type Action string

const (
	ActionDateChange    Action = "date-change"
	ActionReassignRoom  Action = "reassign-room"
	ActionCancelRefund  Action = "cancel-refund"
	ActionConvertToHold Action = "convert-to-hold"
	ActionReleaseHold   Action = "release-hold"
)

var actionLabels = map[Action]string{
	ActionDateChange:    "날짜 변경 요청",
	ActionReassignRoom:  "객실 변경",
	ActionCancelRefund:  "취소/환불",
	ActionConvertToHold: "홀드 전환",
	ActionReleaseHold:   "홀드 해제",
}

func (a Action) Label() string { return actionLabels[a] }

// Available lists the actions offered for rec.  Releasing a hold only
// makes sense when a hold is part of the conflict.
func Available(rec conflict.Record) []Action {
	out := []Action{ActionDateChange, ActionReassignRoom, ActionCancelRefund}
	if rec.InvolvesHold() {
		out = append(out, ActionReleaseHold)
	}
	return append(out, ActionConvertToHold)
}

// EntityRef is the identifier and current state of one side of a conflict.
type EntityRef struct {
	Kind   conflict.EntityKind `json:"kind"`
	ID     string              `json:"id"`
	RoomID string              `json:"room_id"`
	Start  string              `json:"start"`
	End    string              `json:"end"`
	Status model.BookingStatus `json:"status,omitempty"`
	Reason model.HoldReason    `json:"reason,omitempty"`
}

// Entities flattens rec into references, booking A first.
func Entities(rec conflict.Record) []EntityRef {
	out := []EntityRef{bookingRef(rec.BookingA)}
	if rec.BookingB != nil {
		out = append(out, bookingRef(*rec.BookingB))
	}
	if rec.Hold != nil {
		h := rec.Hold
		out = append(out, EntityRef{
			Kind:   conflict.KindHold,
			ID:     h.ID,
			RoomID: h.RoomID,
			Start:  h.StartDate,
			End:    h.EndDate,
			Reason: h.Reason,
		})
	}
	return out
}

func bookingRef(b model.Booking) EntityRef {
	return EntityRef{
		Kind:   conflict.KindBooking,
		ID:     b.ID,
		RoomID: b.RoomID,
		Start:  b.CheckIn,
		End:    b.CheckOut,
		Status: b.Status,
	}
}

// Payload is what gets handed to the collaborator performing an action.
type Payload struct {
	Action      Action            `json:"action"`
	ConflictKey string            `json:"conflict_key"`
	RoomID      string            `json:"room_id"`
	Severity    conflict.Severity `json:"severity"`
	Entities    []EntityRef       `json:"entities"`
	Candidates  []string          `json:"candidate_rooms,omitempty"`
	RequestedBy string            `json:"requested_by"`
	RequestedAt time.Time         `json:"requested_at"`
}

// BuildPayload prepares action for rec.  It fails with ErrUnsupportedAction
// when rec does not offer the action.
func BuildPayload(rec conflict.Record, action Action, actor string, now time.Time) (Payload, error) {
	ok := false
	for _, a := range Available(rec) {
		if a == action {
			ok = true
			break
		}
	}
	if !ok {
		return Payload{}, fmt.Errorf("%w: %s", ErrUnsupportedAction, action)
	}
	return Payload{
		Action:      action,
		ConflictKey: rec.Key(),
		RoomID:      rec.RoomID,
		Severity:    rec.Severity,
		Entities:    Entities(rec),
		RequestedBy: actor,
		RequestedAt: now.UTC(),
	}, nil
}

// ReassignCandidates lists rooms other than rec's room that could take
// booking A's stay with no overlap at all, in inventory order.  Rooms too
// small for the party are skipped.
func ReassignCandidates(rec conflict.Record, rooms []model.Room, bookings []model.Booking, holds []model.Hold) []string {
	guests := rec.BookingA.GuestCount + rec.BookingA.ExtraGuests
	out := make([]string, 0)
	for _, room := range rooms {
		if room.ID == rec.RoomID || (guests > 0 && room.MaxGuests < guests) {
			continue
		}
		res := conflict.CheckNewBooking(bookings, holds, conflict.Candidate{
			RoomID:   room.ID,
			CheckIn:  rec.BookingA.CheckIn,
			CheckOut: rec.BookingA.CheckOut,
		})
		if res.Severity == conflict.Normal {
			out = append(out, room.ID)
		}
	}
	return out
}
