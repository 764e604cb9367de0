package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/event-ticketing/internal/lifecycle"
	"github.com/iliyamo/event-ticketing/internal/model"
)

// TicketRepo persists tickets and their seat snapshots. Tickets are
// created once and updated in place for status transitions; they are
// never hard-deleted.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

// DB exposes the underlying sql.DB for handler-scoped transactions.
func (r *TicketRepo) DB() *sql.DB { return r.db }

// CreateTx inserts the ticket row and its seat snapshots within the
// caller's transaction and populates the generated ID and timestamps.
// The QR payload depends on the generated ID, so it is stored separately
// via SetQRPayloadTx before the transaction commits.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Ticket) error {
	const q = `INSERT INTO tickets (event_id, holder_id, total_cents, status, qr_payload)
	           VALUES (?, ?, ?, ?, '')`
	res, err := tx.ExecContext(ctx, q, t.EventID, t.HolderID, t.TotalCents, string(t.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)

	if len(t.Seats) > 0 {
		query := `INSERT INTO ticket_seats (ticket_id, row_label, seat_number, price_cents) VALUES `
		args := make([]interface{}, 0, len(t.Seats)*4)
		for i, s := range t.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?)"
			args = append(args, t.ID, s.Row, s.Number, s.PriceCents)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	const sel = `SELECT created_at, updated_at FROM tickets WHERE id = ?`
	return tx.QueryRowContext(ctx, sel, t.ID).Scan(&t.CreatedAt, &t.UpdatedAt)
}

// SetQRPayloadTx stores the encoded QR string on a freshly created ticket.
func (r *TicketRepo) SetQRPayloadTx(ctx context.Context, tx *sql.Tx, ticketID uint64, payload string) error {
	_, err := tx.ExecContext(ctx, `UPDATE tickets SET qr_payload = ? WHERE id = ?`, payload, ticketID)
	return err
}

// GetByID fetches a ticket with its seat snapshots. Returns
// ErrTicketNotFound when absent.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT id, event_id, holder_id, total_cents, status, qr_payload, created_at, updated_at
	           FROM tickets WHERE id = ?`
	var (
		t      model.Ticket
		status string
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&t.ID, &t.EventID, &t.HolderID, &t.TotalCents, &status, &t.QRPayload,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	t.Status = lifecycle.Status(status)
	t.Seats, err = r.seatsOf(ctx, t.ID)
	return &t, err
}

// GetByIDForHolder fetches a ticket enforcing ownership: ErrTicketNotFound
// when absent, ErrForbidden when held by someone else.
func (r *TicketRepo) GetByIDForHolder(ctx context.Context, id, holderID uint64) (*model.Ticket, error) {
	t, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.HolderID != holderID {
		return nil, ErrForbidden
	}
	return t, nil
}

func (r *TicketRepo) seatsOf(ctx context.Context, ticketID uint64) ([]model.SeatSnapshot, error) {
	const q = `SELECT row_label, seat_number, price_cents
	           FROM ticket_seats
	           WHERE ticket_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := make([]model.SeatSnapshot, 0)
	for rows.Next() {
		var s model.SeatSnapshot
		if err := rows.Scan(&s.Row, &s.Number, &s.PriceCents); err != nil {
			return nil, err
		}
		snaps = append(snaps, s)
	}
	return snaps, rows.Err()
}

// TicketDetail is a holder-facing ticket row joined with its event.
type TicketDetail struct {
	ID         uint64               `json:"id"`
	EventID    uint64               `json:"event_id"`
	EventTitle string               `json:"event_title"`
	Venue      string               `json:"venue"`
	StartsAt   time.Time            `json:"starts_at"`
	Status     lifecycle.Status     `json:"status"`
	TotalCents uint32               `json:"total_cents"`
	QRPayload  string               `json:"qr_payload"`
	Seats      []model.SeatSnapshot `json:"seats"`
	CreatedAt  time.Time            `json:"created_at"`
}

// ListByHolder returns all of a holder's tickets, newest first, with
// event details and seat snapshots. Seats are fetched for all tickets in
// a single second query.
func (r *TicketRepo) ListByHolder(ctx context.Context, holderID uint64) ([]TicketDetail, error) {
	const q = `SELECT t.id, t.event_id, e.title, e.venue, e.starts_at,
	                  t.status, t.total_cents, t.qr_payload, t.created_at
	           FROM tickets t
	           JOIN events e ON e.id = t.event_id
	           WHERE t.holder_id = ?
	           ORDER BY t.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, holderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]TicketDetail, 0)
	index := make(map[uint64]int)
	for rows.Next() {
		var (
			d      TicketDetail
			status string
		)
		if err := rows.Scan(
			&d.ID, &d.EventID, &d.EventTitle, &d.Venue, &d.StartsAt,
			&status, &d.TotalCents, &d.QRPayload, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		d.Status = lifecycle.Status(status)
		d.StartsAt = d.StartsAt.UTC()
		d.Seats = []model.SeatSnapshot{}
		index[d.ID] = len(details)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	ids := make([]interface{}, 0, len(details))
	placeholders := make([]string, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.ID)
		placeholders = append(placeholders, "?")
	}
	seatQuery := `SELECT ticket_id, row_label, seat_number, price_cents
	              FROM ticket_seats
	              WHERE ticket_id IN (` + strings.Join(placeholders, ",") + `)
	              ORDER BY ticket_id, row_label, seat_number`
	srows, err := r.db.QueryContext(ctx, seatQuery, ids...)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var (
			tid uint64
			s   model.SeatSnapshot
		)
		if err := srows.Scan(&tid, &s.Row, &s.Number, &s.PriceCents); err != nil {
			return nil, err
		}
		if idx, ok := index[tid]; ok {
			details[idx].Seats = append(details[idx].Seats, s)
		}
	}
	return details, srows.Err()
}

// UpdateStatusTx performs the guarded status transition
// "UPDATE ... WHERE id AND status = from". Matching zero rows means the
// ticket left the expected state concurrently; that surfaces as
// ErrConflict so the caller reports it instead of silently overwriting.
func (r *TicketRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to lifecycle.Status) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE tickets SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// EventStats aggregates an event's tickets by status. Sold covers both
// active and checked-in tickets; refunds are counted separately so the
// audit trail stays visible.
type EventStats struct {
	TotalTickets   int    `json:"total_tickets"`
	SoldCount      int    `json:"sold_count"`
	RefundedCount  int    `json:"refunded_count"`
	TotalRevenue   uint64 `json:"total_revenue_cents"`
	RefundedAmount uint64 `json:"refunded_amount_cents"`
}

// StatsByEvent sums ticket counts and amounts per status for one event.
func (r *TicketRepo) StatsByEvent(ctx context.Context, eventID uint64) (EventStats, error) {
	const q = `SELECT status, COUNT(*), COALESCE(SUM(total_cents), 0)
	           FROM tickets
	           WHERE event_id = ?
	           GROUP BY status`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return EventStats{}, err
	}
	defer rows.Close()

	var stats EventStats
	for rows.Next() {
		var (
			status string
			count  int
			amount uint64
		)
		if err := rows.Scan(&status, &count, &amount); err != nil {
			return EventStats{}, err
		}
		stats.TotalTickets += count
		switch lifecycle.Status(status) {
		case lifecycle.StatusActive, lifecycle.StatusCheckedIn:
			stats.SoldCount += count
			stats.TotalRevenue += amount
		case lifecycle.StatusRefunded:
			stats.RefundedCount += count
			stats.RefundedAmount += amount
		}
	}
	return stats, rows.Err()
}
