package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/stayboard/internal/model"
)

// HoldRepo provides data access to the holds table.  Releasing a hold
// stamps released_at instead of deleting the row; only unreleased holds
// belong to the active set the classifier sees.
type HoldRepo struct {
	db *sql.DB
}

func NewHoldRepo(db *sql.DB) *HoldRepo { return &HoldRepo{db: db} }

const holdCols = `id, room_id, start_date, end_date, reason, memo, created_by, created_at`

func scanHold(s rowScanner) (model.Hold, error) {
	var h model.Hold
	err := s.Scan(&h.ID, &h.RoomID, &h.StartDate, &h.EndDate, &h.Reason, &h.Memo, &h.CreatedBy, &h.CreatedAt)
	return h, err
}

func (r *HoldRepo) query(ctx context.Context, q string, args ...any) ([]model.Hold, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Hold, 0)
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// List returns all active holds.
func (r *HoldRepo) List(ctx context.Context) ([]model.Hold, error) {
	return r.query(ctx, `SELECT `+holdCols+` FROM holds WHERE released_at IS NULL ORDER BY room_id, start_date, id`)
}

// ListByRoom returns the active holds of one room.
func (r *HoldRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Hold, error) {
	return r.query(ctx, `SELECT `+holdCols+` FROM holds WHERE released_at IS NULL AND room_id = ? ORDER BY start_date, id`, roomID)
}

// Get returns an active hold or ErrNotFound.
func (r *HoldRepo) Get(ctx context.Context, id string) (model.Hold, error) {
	h, err := scanHold(r.db.QueryRowContext(ctx, `SELECT `+holdCols+` FROM holds WHERE id = ? AND released_at IS NULL`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return h, ErrNotFound
	}
	return h, err
}

// NextSequence returns the next free number for HOLD-NNN identifiers.
// Released holds still count so numbers are never reused.
func (r *HoldRepo) NextSequence(ctx context.Context) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTRING(id, 6) AS UNSIGNED)), 0) FROM holds WHERE id LIKE 'HOLD-%'`,
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create inserts h; a taken identifier yields ErrConflict.
func (r *HoldRepo) Create(ctx context.Context, h model.Hold) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO holds (id, room_id, start_date, end_date, reason, memo, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		h.ID, h.RoomID, h.StartDate, h.EndDate, h.Reason, h.Memo, h.CreatedBy, h.CreatedAt.UTC(),
	)
	if isDuplicate(err) {
		return fmt.Errorf("hold %s: %w", h.ID, ErrConflict)
	}
	return err
}

// Release removes the hold from the active set.  Releasing an unknown or
// already released hold yields ErrNotFound.
func (r *HoldRepo) Release(ctx context.Context, id, by string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE holds SET released_at = UTC_TIMESTAMP(), released_by = ? WHERE id = ? AND released_at IS NULL`,
		by, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
