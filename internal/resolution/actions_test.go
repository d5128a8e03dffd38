package resolution

import (
	"errors"
	"reflect"
	"testing"

	"github.com/iliyamo/stayboard/internal/conflict"
	"github.com/iliyamo/stayboard/internal/model"
)

func TestAvailable(t *testing.T) {
	tests := []struct {
		name string
		rec  func(*testing.T) conflict.Record
		want []Action
	}{
		{"booking pair", pairRecord, []Action{ActionDateChange, ActionReassignRoom, ActionCancelRefund, ActionConvertToHold}},
		{"hold", holdRecord, []Action{ActionDateChange, ActionReassignRoom, ActionCancelRefund, ActionReleaseHold, ActionConvertToHold}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Available(tt.rec(t)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Available() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildPayload(t *testing.T) {
	rec := holdRecord(t)
	p, err := BuildPayload(rec, ActionReleaseHold, "op-1", now)
	if err != nil {
		t.Fatalf("BuildPayload() error = %v", err)
	}
	if p.ConflictKey != rec.Key() || p.RoomID != "room-03" || p.RequestedBy != "op-1" {
		t.Errorf("payload = %+v", p)
	}
	want := []EntityRef{
		{Kind: conflict.KindBooking, ID: "ACM-2026-00010", RoomID: "room-03", Start: "2026-02-15", End: "2026-02-17", Status: model.StatusConfirmed},
		{Kind: conflict.KindHold, ID: "HOLD-001", RoomID: "room-03", Start: "2026-02-16", End: "2026-02-18", Reason: model.ReasonInspection},
	}
	if !reflect.DeepEqual(p.Entities, want) {
		t.Errorf("entities = %+v, want %+v", p.Entities, want)
	}

	if _, err := BuildPayload(pairRecord(t), ActionReleaseHold, "op-1", now); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("release-hold on a booking pair = %v, want ErrUnsupportedAction", err)
	}
	if _, err := BuildPayload(rec, Action("teleport"), "op-1", now); !errors.Is(err, ErrUnsupportedAction) {
		t.Errorf("unknown action = %v, want ErrUnsupportedAction", err)
	}
}

func TestReassignCandidates(t *testing.T) {
	rec := pairRecord(t) // booking A: room-01, 02-10..02-13, two guests
	rooms := []model.Room{
		{ID: "room-01", MaxGuests: 4},
		{ID: "room-02", MaxGuests: 4},
		{ID: "room-03", MaxGuests: 4},
		{ID: "room-04", MaxGuests: 1},
		{ID: "room-05", MaxGuests: 6},
	}
	bs := []model.Booking{
		{ID: "X", RoomID: "room-02", CheckIn: "2026-02-12", CheckOut: "2026-02-14", Status: model.StatusPaymentPending},
		{ID: "Y", RoomID: "room-05", CheckIn: "2026-02-13", CheckOut: "2026-02-14", Status: model.StatusConfirmed},
	}
	hs := []model.Hold{{ID: "HOLD-001", RoomID: "room-03", StartDate: "2026-02-09", EndDate: "2026-02-11"}}

	got := ReassignCandidates(rec, rooms, bs, hs)
	if want := []string{"room-05"}; !reflect.DeepEqual(got, want) {
		t.Errorf("ReassignCandidates() = %v, want %v", got, want)
	}
}
