package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// SeatRepo persists an event's seat map. It satisfies the inventory
// manager's SeatStore port; the manager provides the per-event mutual
// exclusion, so the queries here stay plain single statements.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// coordPredicate builds "(row_label, seat_number) IN ((?,?),...)" and the
// matching args for the given coordinates.
func coordPredicate(coords []model.SeatCoord) (string, []interface{}) {
	tuples := make([]string, 0, len(coords))
	args := make([]interface{}, 0, len(coords)*2)
	for _, c := range coords {
		tuples = append(tuples, "(?, ?)")
		args = append(args, c.Row, c.Number)
	}
	return "(row_label, seat_number) IN (" + strings.Join(tuples, ",") + ")", args
}

// SeatsByCoords returns the seats of an event matching the given
// coordinates. Coordinates with no matching row are simply absent from
// the result; callers decide whether that is an error.
func (r *SeatRepo) SeatsByCoords(ctx context.Context, eventID uint64, coords []model.SeatCoord) ([]model.Seat, error) {
	if len(coords) == 0 {
		return nil, nil
	}
	pred, args := coordPredicate(coords)
	query := `SELECT row_label, seat_number, category, price_cents, is_booked
	          FROM seats
	          WHERE event_id = ? AND ` + pred
	rows, err := r.db.QueryContext(ctx, query, append([]interface{}{eventID}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Seat
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Row, &s.Number, &s.Category, &s.PriceCents, &s.IsBooked); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// SetBooked flips the booked flag for the given seats of one event in a
// single statement. Coordinates that match no row are ignored.
func (r *SeatRepo) SetBooked(ctx context.Context, eventID uint64, coords []model.SeatCoord, booked bool) error {
	if len(coords) == 0 {
		return nil
	}
	pred, args := coordPredicate(coords)
	query := `UPDATE seats SET is_booked = ? WHERE event_id = ? AND ` + pred
	_, err := r.db.ExecContext(ctx, query, append([]interface{}{booked, eventID}, args...)...)
	return err
}

// CreateBulkTx inserts an event's full seat map in one statement within
// the caller's transaction.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, eventID uint64, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (event_id, row_label, seat_number, category, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*5)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, eventID, s.Row, s.Number, s.Category, s.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// MapByEvent returns the complete seat map of an event ordered by row
// label then seat number.
func (r *SeatRepo) MapByEvent(ctx context.Context, eventID uint64) ([]model.Seat, error) {
	const q = `SELECT row_label, seat_number, category, price_cents, is_booked
	           FROM seats
	           WHERE event_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]model.Seat, 0)
	for rows.Next() {
		var s model.Seat
		if err := rows.Scan(&s.Row, &s.Number, &s.Category, &s.PriceCents, &s.IsBooked); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}
