package model

import "time"

// HoldReason explains why a room is blocked.
type HoldReason string

const (
	ReasonInspection    HoldReason = "INSPECTION"
	ReasonRepair        HoldReason = "REPAIR"
	ReasonEvent         HoldReason = "EVENT"
	ReasonDiscretionary HoldReason = "DISCRETIONARY"
)

var holdReasonLabels = map[HoldReason]string{
	ReasonInspection:    "점검",
	ReasonRepair:        "수리",
	ReasonEvent:         "행사",
	ReasonDiscretionary: "사정",
}

func (r HoldReason) Label() string { return holdReasonLabels[r] }

func (r HoldReason) Valid() bool {
	_, ok := holdReasonLabels[r]
	return ok
}

// Hold is an administrative block on a room for non-booking reasons
// (inspection, repair, an event or operator discretion).  Like a booking
// it covers the half-open range [StartDate, EndDate).  Holds carry no
// guest or payment data and disappear from the active set when released.
//
// Fields:
//
//	ID        – caller generated identifier (HOLD-001).
//	RoomID    – room being blocked.
//	StartDate – first blocked day.
//	EndDate   – first day available again.
//	Reason    – inspection, repair, event or discretionary.
//	Memo      – operator note.
//	CreatedBy – operator who placed the hold.
//	CreatedAt – creation timestamp.
type Hold struct {
	ID        string     `json:"id"`         // holds.id
	RoomID    string     `json:"room_id"`    // holds.room_id
	StartDate string     `json:"start_date"` // holds.start_date
	EndDate   string     `json:"end_date"`   // holds.end_date
	Reason    HoldReason `json:"reason"`     // holds.reason
	Memo      string     `json:"memo"`       // holds.memo
	CreatedBy string     `json:"created_by"` // holds.created_by
	CreatedAt time.Time  `json:"created_at"` // holds.created_at
}
