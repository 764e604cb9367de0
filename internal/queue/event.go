// Package queue defines message payloads exchanged over the broker and
// the background consumer that drains them.
package queue

// TicketIssuedEvent is published after a purchase commits. It carries
// enough for downstream consumers to log or notify without hitting the
// primary database.
type TicketIssuedEvent struct {
	TicketID   uint64   `json:"ticket_id"`
	EventID    uint64   `json:"event_id"`
	HolderID   uint64   `json:"holder_id"`
	EventTitle string   `json:"event_title"`
	Venue      string   `json:"venue"`
	StartsAt   string   `json:"starts_at"`
	SeatLabels []string `json:"seats"`
	TotalCents uint32   `json:"total_cents"`
	IssuedAt   string   `json:"issued_at"`
}
