package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iliyamo/stayboard/internal/model"
)

// BookingRepo provides data access to the bookings table.  Bookings are
// never deleted; cancellations and refunds are status changes.
type BookingRepo struct {
	db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingCols = `id, room_id, check_in, check_out, guest_name, phone, guest_count,
	extra_guests, amount, status, channel, source, memo, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(s rowScanner) (model.Booking, error) {
	var b model.Booking
	err := s.Scan(&b.ID, &b.RoomID, &b.CheckIn, &b.CheckOut, &b.GuestName, &b.Phone, &b.GuestCount,
		&b.ExtraGuests, &b.Amount, &b.Status, &b.Channel, &b.Source, &b.Memo, &b.CreatedAt)
	return b, err
}

func (r *BookingRepo) query(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// List returns every booking, including refunded ones, ordered by room and
// check-in.  The classifier filters inert statuses itself.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	return r.query(ctx, `SELECT `+bookingCols+` FROM bookings ORDER BY room_id, check_in, id`)
}

// ListByRoom returns the bookings of one room; used to take the snapshot
// a room-locked mutation validates against.
func (r *BookingRepo) ListByRoom(ctx context.Context, roomID string) ([]model.Booking, error) {
	return r.query(ctx, `SELECT `+bookingCols+` FROM bookings WHERE room_id = ? ORDER BY check_in, id`, roomID)
}

// Get returns one booking or ErrNotFound.
func (r *BookingRepo) Get(ctx context.Context, id string) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, `SELECT `+bookingCols+` FROM bookings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}

// NextSequence returns the next free number for identifiers of the form
// ACM-<year>-NNNNN.
func (r *BookingRepo) NextSequence(ctx context.Context, year int) (int, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(CAST(SUBSTRING(id, 10) AS UNSIGNED)), 0) FROM bookings WHERE id LIKE ?`,
		fmt.Sprintf("ACM-%04d-%%", year),
	).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create inserts b.  A taken identifier yields ErrConflict so the caller
// can pick the next sequence and retry.
func (r *BookingRepo) Create(ctx context.Context, b model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, room_id, check_in, check_out, guest_name, phone, guest_count,
			extra_guests, amount, status, channel, source, memo, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.RoomID, b.CheckIn, b.CheckOut, b.GuestName, b.Phone, b.GuestCount,
		b.ExtraGuests, b.Amount, b.Status, b.Channel, b.Source, b.Memo, b.CreatedAt.UTC(),
	)
	if isDuplicate(err) {
		return fmt.Errorf("booking %s: %w", b.ID, ErrConflict)
	}
	return err
}

// UpdateStatus changes the status of a booking.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`, status, id)
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
