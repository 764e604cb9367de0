package model

import (
	"time"

	"github.com/iliyamo/event-ticketing/internal/lifecycle"
)

// Ticket records one purchase transaction covering one or more seats.
// Seats is never empty; TotalCents is fixed at creation as the sum of the
// snapshot prices and never recomputed. Tickets are never deleted -
// refund and check-in are terminal-but-retained states so stats keep an
// audit trail.
type Ticket struct {
	ID         uint64             `json:"id"`
	EventID    uint64             `json:"event_id"`
	HolderID   uint64             `json:"holder_id"`
	Seats      []SeatSnapshot     `json:"seats"`
	TotalCents uint32             `json:"total_cents"`
	Status     lifecycle.Status   `json:"status"`
	QRPayload  string             `json:"qr_payload,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// SeatCoords returns the coordinates of the ticket's seat snapshots.
func (t Ticket) SeatCoords() []SeatCoord {
	coords := make([]SeatCoord, 0, len(t.Seats))
	for _, s := range t.Seats {
		coords = append(coords, s.Coord())
	}
	return coords
}

// CoversSeats reports whether every coordinate in coords belongs to the
// ticket's seat set. The validate path uses this to check a decoded QR
// payload against the stored ticket.
func (t Ticket) CoversSeats(coords []SeatCoord) bool {
	if len(coords) == 0 {
		return false
	}
	owned := make(map[SeatCoord]struct{}, len(t.Seats))
	for _, s := range t.Seats {
		owned[s.Coord()] = struct{}{}
	}
	for _, c := range coords {
		if _, ok := owned[c]; !ok {
			return false
		}
	}
	return true
}
