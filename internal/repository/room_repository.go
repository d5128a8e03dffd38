package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/stayboard/internal/model"
)

// RoomRepo reads the room catalog.  Rooms are reference data maintained
// outside the desk; the repository only lists and fetches them.
type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// List returns every room in catalog order.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, category, max_guests, price_per_night FROM rooms ORDER BY sort_order, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	rooms := make([]model.Room, 0)
	for rows.Next() {
		var rm model.Room
		if err := rows.Scan(&rm.ID, &rm.Name, &rm.Category, &rm.MaxGuests, &rm.PricePerNight); err != nil {
			return nil, err
		}
		rooms = append(rooms, rm)
	}
	return rooms, rows.Err()
}

// Get returns one room or ErrNotFound.
func (r *RoomRepo) Get(ctx context.Context, id string) (model.Room, error) {
	var rm model.Room
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, category, max_guests, price_per_night FROM rooms WHERE id = ?`, id,
	).Scan(&rm.ID, &rm.Name, &rm.Category, &rm.MaxGuests, &rm.PricePerNight)
	if errors.Is(err, sql.ErrNoRows) {
		return rm, ErrNotFound
	}
	return rm, err
}
