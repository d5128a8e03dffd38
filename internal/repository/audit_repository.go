package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iliyamo/stayboard/internal/conflict"
	"github.com/iliyamo/stayboard/internal/resolution"
)

// AuditRepo stores forced approvals.  It offers no update or delete.
type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{db: db} }

// Append writes one entry.
func (r *AuditRepo) Append(ctx context.Context, e resolution.AuditEntry) error {
	entities, err := json.Marshal(e.Entities)
	if err != nil {
		return fmt.Errorf("encode audit entities: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO override_audit (id, conflict_key, room_id, actor, justification, severity, entities, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.ConflictKey, e.RoomID, e.Actor, e.Justification, e.Severity.String(), entities, e.RecordedAt.UTC(),
	)
	if isDuplicate(err) {
		return fmt.Errorf("audit %s: %w", e.ID, ErrConflict)
	}
	return err
}

// List returns entries newest first, optionally limited to one conflict.
func (r *AuditRepo) List(ctx context.Context, conflictKey string) ([]resolution.AuditEntry, error) {
	q := `SELECT id, conflict_key, room_id, actor, justification, severity, entities, recorded_at FROM override_audit`
	var args []any
	if conflictKey != "" {
		q += ` WHERE conflict_key = ?`
		args = append(args, conflictKey)
	}
	q += ` ORDER BY recorded_at DESC, id`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resolution.AuditEntry, 0)
	for rows.Next() {
		var (
			e        resolution.AuditEntry
			severity string
			entities []byte
		)
		if err := rows.Scan(&e.ID, &e.ConflictKey, &e.RoomID, &e.Actor, &e.Justification, &severity, &entities, &e.RecordedAt); err != nil {
			return nil, err
		}
		if e.Severity, err = conflict.ParseSeverity(severity); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(entities, &e.Entities); err != nil {
			return nil, fmt.Errorf("decode audit entities %s: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
