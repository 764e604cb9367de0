package model

import (
	"sort"
	"strings"
)

// SeatCoord is the (row, number) pair identifying one seat within an
// event's seat map. Coordinates are what purchase requests carry; prices
// are never accepted from the client side.
type SeatCoord struct {
	Row    string `json:"row"`
	Number uint32 `json:"number"`
}

// Less orders coordinates by row label, then seat number. Seat maps are
// sets, but consumers expect a stable display order.
func (c SeatCoord) Less(other SeatCoord) bool {
	if c.Row != other.Row {
		return c.Row < other.Row
	}
	return c.Number < other.Number
}

// Seat is one bookable seat of an event's seat map. The category is
// informational only; the price is fixed once the event is created.
type Seat struct {
	Row        string `json:"row"`
	Number     uint32 `json:"number"`
	Category   string `json:"category"`
	PriceCents uint32 `json:"price_cents"`
	IsBooked   bool   `json:"is_booked"`
}

// Coord returns the seat's identifying coordinate.
func (s Seat) Coord() SeatCoord { return SeatCoord{Row: s.Row, Number: s.Number} }

// SeatSnapshot is the per-ticket copy of a seat taken at purchase time.
// The snapshot price is authoritative for the ticket from then on,
// independent of the live seat map.
type SeatSnapshot struct {
	Row        string `json:"row"`
	Number     uint32 `json:"number"`
	PriceCents uint32 `json:"price_cents"`
}

// Coord returns the snapshot's seat coordinate.
func (s SeatSnapshot) Coord() SeatCoord { return SeatCoord{Row: s.Row, Number: s.Number} }

// NormalizeCoords trims row labels, drops blank or zero-numbered entries
// and removes duplicates while preserving the caller's order. Purchase
// and release requests are normalized before they reach the inventory.
func NormalizeCoords(coords []SeatCoord) []SeatCoord {
	out := make([]SeatCoord, 0, len(coords))
	seen := make(map[SeatCoord]struct{}, len(coords))
	for _, c := range coords {
		c.Row = strings.TrimSpace(c.Row)
		if c.Row == "" || c.Number == 0 {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// SortCoords orders coordinates by row then number, in place.
func SortCoords(coords []SeatCoord) {
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
}

// SortSnapshots orders snapshots by row then number, in place.
func SortSnapshots(snaps []SeatSnapshot) {
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Coord().Less(snaps[j].Coord()) })
}
