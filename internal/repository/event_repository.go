package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// EventRepo manages persistence for events. The seat map itself lives in
// the seats table and is handled by SeatRepo; EventRepo covers the
// organizer-facing metadata plus the stored start time the refund guard
// depends on.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo with the given DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying sql.DB so handlers can begin transactions
// spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

// CreateTx inserts a new event within the caller's transaction and
// populates the generated ID and DB-default timestamps on the struct.
func (r *EventRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.Event) error {
	const q = `INSERT INTO events (organizer_id, title, description, venue, starts_at, capacity)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		e.OrganizerID, e.Title, e.Description, e.Venue, e.StartsAt.UTC(), e.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM events WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, e.ID).Scan(&e.CreatedAt, &e.UpdatedAt)
}

// GetByID fetches an event by id. Returns ErrEventNotFound when absent.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, organizer_id, title, description, venue, starts_at, capacity, created_at, updated_at
	           FROM events WHERE id = ?`
	var (
		e    model.Event
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&e.ID, &e.OrganizerID, &e.Title, &desc, &e.Venue, &e.StartsAt, &e.Capacity,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	e.Description = desc.String
	e.StartsAt = e.StartsAt.UTC()
	return &e, nil
}

// List returns events ordered by start time, optionally restricted to a
// single calendar day (UTC) and/or an exact venue match.
func (r *EventRepo) List(ctx context.Context, day *time.Time, venue string) ([]model.Event, error) {
	query := `SELECT id, organizer_id, title, description, venue, starts_at, capacity, created_at, updated_at
	          FROM events WHERE 1=1`
	var args []interface{}
	if day != nil {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		query += ` AND starts_at >= ? AND starts_at < ?`
		args = append(args, dayStart, dayStart.Add(24*time.Hour))
	}
	if venue != "" {
		query += ` AND venue = ?`
		args = append(args, venue)
	}
	query += ` ORDER BY starts_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		var (
			e    model.Event
			desc sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.OrganizerID, &e.Title, &desc, &e.Venue, &e.StartsAt, &e.Capacity,
			&e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Description = desc.String
		e.StartsAt = e.StartsAt.UTC()
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdateMeta updates an event's metadata fields for its organizer. Seat
// prices are immutable after creation, so the seat map is deliberately
// out of reach here. Returns ErrEventNotFound when the event does not
// exist and ErrForbidden when it belongs to another organizer.
func (r *EventRepo) UpdateMeta(ctx context.Context, id, organizerID uint64, title, description, venue string, startsAt time.Time) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != organizerID {
		return ErrForbidden
	}
	const q = `UPDATE events SET title = ?, description = ?, venue = ?, starts_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, q, title, description, venue, startsAt.UTC(), id)
	return err
}

// Delete removes an event and (via FK cascade) its seat map. It refuses
// with ErrConflict while any ticket still references the event, keeping
// the audit trail intact.
func (r *EventRepo) Delete(ctx context.Context, id, organizerID uint64) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != organizerID {
		return ErrForbidden
	}
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE event_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return err
}

func (r *EventRepo) ownerOf(ctx context.Context, id uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx, `SELECT organizer_id FROM events WHERE id = ?`, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrEventNotFound
	}
	return owner, err
}
