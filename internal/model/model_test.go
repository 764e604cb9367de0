package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSeatMap() []Seat {
	return []Seat{
		{Row: "A", Number: 1, Category: "standard", PriceCents: 500},
		{Row: "A", Number: 2, Category: "standard", PriceCents: 500},
		{Row: "B", Number: 1, Category: "balcony", PriceCents: 450},
	}
}

func TestValidateSeatMapAccepts(t *testing.T) {
	require.NoError(t, ValidateSeatMap(3, validSeatMap()))
}

func TestValidateSeatMapRejectsEmpty(t *testing.T) {
	assert.ErrorIs(t, ValidateSeatMap(0, nil), ErrEmptySeatMap)
}

func TestValidateSeatMapRejectsCapacityMismatch(t *testing.T) {
	assert.ErrorIs(t, ValidateSeatMap(5, validSeatMap()), ErrCapacityMismatch)
}

func TestValidateSeatMapRejectsDuplicates(t *testing.T) {
	seats := validSeatMap()
	seats[2] = Seat{Row: "A", Number: 1, PriceCents: 450}
	assert.Error(t, ValidateSeatMap(3, seats))
}

func TestValidateSeatMapRejectsZeroPrice(t *testing.T) {
	seats := validSeatMap()
	seats[1].PriceCents = 0
	assert.Error(t, ValidateSeatMap(3, seats))
}

func TestValidateSeatMapRejectsPreBookedSeat(t *testing.T) {
	seats := validSeatMap()
	seats[0].IsBooked = true
	assert.Error(t, ValidateSeatMap(3, seats))
}

func TestValidateSeatMapRejectsBlankCoordinate(t *testing.T) {
	seats := validSeatMap()
	seats[0].Row = ""
	assert.Error(t, ValidateSeatMap(3, seats))

	seats = validSeatMap()
	seats[0].Number = 0
	assert.Error(t, ValidateSeatMap(3, seats))
}

func TestNormalizeCoords(t *testing.T) {
	got := NormalizeCoords([]SeatCoord{
		{Row: " A ", Number: 1},
		{Row: "A", Number: 1},
		{Row: "", Number: 5},
		{Row: "B", Number: 0},
		{Row: "B", Number: 2},
	})
	assert.Equal(t, []SeatCoord{{Row: "A", Number: 1}, {Row: "B", Number: 2}}, got)
}

func TestSortCoords(t *testing.T) {
	coords := []SeatCoord{{Row: "B", Number: 1}, {Row: "A", Number: 2}, {Row: "A", Number: 1}}
	SortCoords(coords)
	assert.Equal(t, []SeatCoord{{Row: "A", Number: 1}, {Row: "A", Number: 2}, {Row: "B", Number: 1}}, coords)
}

func TestTicketCoversSeats(t *testing.T) {
	ticket := Ticket{Seats: []SeatSnapshot{
		{Row: "A", Number: 1, PriceCents: 500},
		{Row: "A", Number: 2, PriceCents: 500},
	}}

	assert.True(t, ticket.CoversSeats([]SeatCoord{{Row: "A", Number: 1}}))
	assert.True(t, ticket.CoversSeats([]SeatCoord{{Row: "A", Number: 1}, {Row: "A", Number: 2}}))
	assert.False(t, ticket.CoversSeats([]SeatCoord{{Row: "A", Number: 3}}))
	assert.False(t, ticket.CoversSeats([]SeatCoord{{Row: "A", Number: 1}, {Row: "B", Number: 1}}))
	assert.False(t, ticket.CoversSeats(nil))
}

func TestTicketSeatCoords(t *testing.T) {
	ticket := Ticket{Seats: []SeatSnapshot{
		{Row: "A", Number: 1, PriceCents: 500},
		{Row: "B", Number: 3, PriceCents: 450},
	}}
	assert.Equal(t, []SeatCoord{{Row: "A", Number: 1}, {Row: "B", Number: 3}}, ticket.SeatCoords())
}
