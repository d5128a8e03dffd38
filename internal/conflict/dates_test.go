package conflict

import (
	"testing"

	"github.com/iliyamo/stayboard/internal/model"
)

func TestDateSeverity(t *testing.T) {
	bs := []model.Booking{
		booking("A", "room-01", "2026-02-10", "2026-02-14", model.StatusConfirmed),
		booking("B", "room-01", "2026-02-12", "2026-02-15", model.StatusConfirmed),
		booking("C", "room-02", "2026-02-10", "2026-02-13", model.StatusConfirmed),
	}
	hs := []model.Hold{
		hold("H1", "room-01", "2026-02-13", "2026-02-16"),
		hold("H2", "room-02", "2026-02-11", "2026-02-12"),
	}
	records := ClassifyAll(bs, hs)

	tests := []struct {
		date string
		want Severity
	}{
		{"2026-02-09", Normal},
		{"2026-02-10", Normal}, // only A and C present, different rooms
		{"2026-02-11", Risk},   // C against H2
		{"2026-02-12", Conflict},
		{"2026-02-13", Conflict}, // A/B conflict wins over the hold risks
		{"2026-02-14", Risk},     // A has left; B against H1
		{"2026-02-15", Normal},   // B has left; H1 alone
	}
	for _, tt := range tests {
		if got := DateSeverity(records, tt.date); got != tt.want {
			t.Errorf("DateSeverity(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestDateSeverity_OneSideOnly(t *testing.T) {
	// A and B overlap on 02-12 only; on 02-10 A is present but the overlap is not.
	bs := []model.Booking{
		booking("A", "room-01", "2026-02-10", "2026-02-13", model.StatusConfirmed),
		booking("B", "room-01", "2026-02-12", "2026-02-15", model.StatusPaymentPending),
	}
	records := Classify(bs, nil, "room-01")
	if got := DateSeverity(records, "2026-02-10"); got != Normal {
		t.Errorf("DateSeverity(02-10) = %v, want normal", got)
	}
	if got := DateSeverity(records, "2026-02-12"); got != Risk {
		t.Errorf("DateSeverity(02-12) = %v, want risk", got)
	}
}

func TestFilterApply(t *testing.T) {
	bs := []model.Booking{
		booking("A", "room-01", "2026-02-10", "2026-02-13", model.StatusConfirmed),
		booking("B", "room-01", "2026-02-12", "2026-02-15", model.StatusPaymentPending),
		booking("C", "room-04", "2026-02-08", "2026-02-11", model.StatusConfirmed),
		booking("D", "room-04", "2026-02-09", "2026-02-12", model.StatusConfirmed),
	}
	hs := []model.Hold{hold("H", "room-04", "2026-02-11", "2026-02-12")}
	records := ClassifyAll(bs, hs)
	if len(records) != 3 {
		t.Fatalf("setup: %d records, want 3", len(records))
	}

	tests := []struct {
		name string
		f    Filter
		want int
	}{
		{"all", Filter{Level: LevelAll}, 3},
		{"conflict only", Filter{Level: LevelConflict}, 1},
		{"risk only", Filter{Level: LevelRisk}, 2},
		{"hold only", Filter{Level: LevelHold}, 1},
		{"date touched by B", Filter{Level: LevelAll, Date: "2026-02-14"}, 1},
		{"date touched by nothing", Filter{Level: LevelAll, Date: "2026-02-20"}, 0},
		{"risk before the first pair", Filter{Level: LevelRisk, Date: "2026-02-09"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.f.Apply(records); len(got) != tt.want {
				t.Errorf("Apply() returned %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestTodayCheckInOut(t *testing.T) {
	bs := []model.Booking{
		booking("A", "room-01", "2026-02-12", "2026-02-15", model.StatusConfirmed),
		booking("B", "room-02", "2026-02-10", "2026-02-12", model.StatusCompleted),
		booking("C", "room-03", "2026-02-12", "2026-02-13", model.StatusRefunded),
		booking("D", "room-04", "2026-02-09", "2026-02-12", model.StatusCancellationRequested),
		booking("E", "room-05", "2026-02-12", "2026-02-14", model.StatusPaymentPending),
	}
	got := TodayCheckInOut(bs, "2026-02-12")
	if got.CheckIns != 2 || got.CheckOuts != 1 {
		t.Errorf("TodayCheckInOut() = %+v, want 2 check-ins and 1 check-out", got)
	}
}

func TestCheckInSoon(t *testing.T) {
	tests := []struct {
		checkIn string
		want    bool
	}{
		{"2026-02-11", false},
		{"2026-02-12", true},
		{"2026-02-14", true},
		{"2026-02-15", false},
		{"bad", false},
	}
	for _, tt := range tests {
		b := booking("A", "room-01", tt.checkIn, "2026-02-20", model.StatusConfirmed)
		if got := CheckInSoon(b, "2026-02-12", 2); got != tt.want {
			t.Errorf("CheckInSoon(%s) = %v, want %v", tt.checkIn, got, tt.want)
		}
	}
}

func TestNights(t *testing.T) {
	tests := []struct {
		r    Range
		want int
	}{
		{Range{"2026-02-10", "2026-02-13"}, 3},
		{Range{"2026-02-28", "2026-03-02"}, 2},
		{Range{"2026-02-13", "2026-02-10"}, 0},
		{Range{"x", "2026-02-10"}, 0},
	}
	for _, tt := range tests {
		if got := Nights(tt.r); got != tt.want {
			t.Errorf("Nights(%v) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestSeverityText(t *testing.T) {
	for _, s := range []Severity{Normal, Risk, Conflict} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", s, err)
		}
		var back Severity
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Errorf("round trip of %v gave %v, %v", s, back, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("ParseSeverity(fatal) succeeded")
	}
	if Conflict.Label() != "충돌" || Risk.Label() != "위험" || Normal.Label() != "정상" {
		t.Error("unexpected severity labels")
	}
}
