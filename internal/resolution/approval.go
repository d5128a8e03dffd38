package resolution

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/stayboard/internal/conflict"
)

// AuditEntry is the permanent record of a forced approval.  Entries are
// only ever appended; nothing in the repository updates or deletes them.
//
// Fields:
//
//	ID            – random UUID assigned when the approval is accepted.
//	ConflictKey   – key of the overridden conflict.
//	RoomID        – room the conflict was found on.
//	Actor         – operator who approved.
//	Justification – the written reason, trimmed.
//	Severity      – severity of the conflict at approval time.
//	Entities      – identifiers and state of everything in the conflict.
//	RecordedAt    – approval timestamp.
type AuditEntry struct {
	ID            string            `json:"id"`            // override_audit.id
	ConflictKey   string            `json:"conflict_key"`  // override_audit.conflict_key
	RoomID        string            `json:"room_id"`       // override_audit.room_id
	Actor         string            `json:"actor"`         // override_audit.actor
	Justification string            `json:"justification"` // override_audit.justification
	Severity      conflict.Severity `json:"severity"`      // override_audit.severity
	Entities      []EntityRef       `json:"entities"`      // override_audit.entities (JSON)
	RecordedAt    time.Time         `json:"recorded_at"`   // override_audit.recorded_at
}

func newAuditEntry(rec conflict.Record, actor, justification string, now time.Time) AuditEntry {
	return AuditEntry{
		ID:            uuid.NewString(),
		ConflictKey:   rec.Key(),
		RoomID:        rec.RoomID,
		Actor:         actor,
		Justification: strings.TrimSpace(justification),
		Severity:      rec.Severity,
		Entities:      Entities(rec),
		RecordedAt:    now.UTC(),
	}
}
