package model

import (
	"errors"
	"fmt"
	"time"
)

// Event owns exactly one seat map. Only the seat map portion and the
// scheduled start time matter to the ticketing core; the text fields are
// organizer-facing metadata.
type Event struct {
	ID          uint64    `json:"id"`
	OrganizerID uint64    `json:"organizer_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    uint32    `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	// ErrCapacityMismatch is returned when the declared capacity does not
	// equal the number of seats supplied for the map.
	ErrCapacityMismatch = errors.New("capacity does not match seat count")
	// ErrEmptySeatMap is returned when an event is created without seats.
	ErrEmptySeatMap = errors.New("seat map is empty")
)

// ValidateSeatMap checks the invariants an event's seat map must hold at
// creation: non-empty, unique (row, number) coordinates, positive prices
// and a capacity equal to the seat count. Seats arriving already booked
// are rejected as well, since booking only ever happens through the
// inventory manager.
func ValidateSeatMap(capacity uint32, seats []Seat) error {
	if len(seats) == 0 {
		return ErrEmptySeatMap
	}
	if uint32(len(seats)) != capacity {
		return ErrCapacityMismatch
	}
	seen := make(map[SeatCoord]struct{}, len(seats))
	for _, s := range seats {
		c := s.Coord()
		if c.Row == "" || c.Number == 0 {
			return fmt.Errorf("invalid seat coordinate %q/%d", s.Row, s.Number)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("duplicate seat %s%d in seat map", c.Row, c.Number)
		}
		seen[c] = struct{}{}
		if s.PriceCents == 0 {
			return fmt.Errorf("seat %s%d has no price", c.Row, c.Number)
		}
		if s.IsBooked {
			return fmt.Errorf("seat %s%d submitted as already booked", c.Row, c.Number)
		}
	}
	return nil
}
