package qrpayload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
)

func sampleSeats() []model.SeatSnapshot {
	return []model.SeatSnapshot{
		{Row: "A", Number: 1, PriceCents: 500},
		{Row: "A", Number: 2, PriceCents: 500},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	issued := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	raw, err := Encode(42, 7, 99, sampleSeats(), issued)
	require.NoError(t, err)

	p, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, TypeTag, p.Type)
	assert.Equal(t, uint64(42), p.TicketID)
	assert.Equal(t, uint64(7), p.EventID)
	assert.Equal(t, uint64(99), p.HolderID)
	assert.Equal(t, []model.SeatCoord{{Row: "A", Number: 1}, {Row: "A", Number: 2}}, p.Seats)
	assert.Equal(t, issued.UnixMilli(), p.IssuedAt)
}

func TestEncodeCarriesNoPrices(t *testing.T) {
	raw, err := Encode(1, 2, 3, sampleSeats(), time.Now())
	require.NoError(t, err)
	assert.NotContains(t, raw, "price")
	assert.NotContains(t, raw, "500")
}

func TestEncodeRejectsIncompleteIdentity(t *testing.T) {
	now := time.Now()
	_, err := Encode(0, 2, 3, sampleSeats(), now)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	_, err = Encode(1, 0, 3, sampleSeats(), now)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	_, err = Encode(1, 2, 0, sampleSeats(), now)
	assert.ErrorIs(t, err, ErrMalformedPayload)
	_, err = Encode(1, 2, 3, nil, now)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"whitespace":    "   ",
		"not json":      "ticket-42",
		"json array":    `[1,2,3]`,
		"trailing data": `{"type":"ticket","ticket_id":1,"event_id":2,"holder_id":3,"seats":[{"row":"A","number":1}],"iat":1}{}`,
		"unknown field": `{"type":"ticket","ticket_id":1,"event_id":2,"holder_id":3,"seats":[{"row":"A","number":1}],"iat":1,"admin":true}`,
		"wrong tag":     `{"type":"voucher","ticket_id":1,"event_id":2,"holder_id":3,"seats":[{"row":"A","number":1}],"iat":1}`,
		"zero ids":      `{"type":"ticket","ticket_id":0,"event_id":2,"holder_id":3,"seats":[{"row":"A","number":1}],"iat":1}`,
		"no seats":      `{"type":"ticket","ticket_id":1,"event_id":2,"holder_id":3,"seats":[],"iat":1}`,
		"blank seats":   `{"type":"ticket","ticket_id":1,"event_id":2,"holder_id":3,"seats":[{"row":"","number":0}],"iat":1}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(raw)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}
}

func storedTicket() model.Ticket {
	return model.Ticket{
		ID:       42,
		EventID:  7,
		HolderID: 99,
		Seats: []model.SeatSnapshot{
			{Row: "A", Number: 1, PriceCents: 500},
			{Row: "A", Number: 2, PriceCents: 500},
		},
	}
}

func TestMatchesAcceptsOwnTicket(t *testing.T) {
	raw, err := Encode(42, 7, 99, sampleSeats(), time.Now())
	require.NoError(t, err)
	p, err := Decode(raw)
	require.NoError(t, err)

	assert.True(t, p.Matches(storedTicket()))
}

func TestMatchesRejectsCrossHolderReplay(t *testing.T) {
	// Payload naming another holder, with event and seats agreeing with
	// the stored ticket, must still be rejected.
	raw, err := Encode(42, 7, 1234, sampleSeats(), time.Now())
	require.NoError(t, err)
	p, err := Decode(raw)
	require.NoError(t, err)

	assert.False(t, p.Matches(storedTicket()))
}

func TestMatchesRejectsWrongEvent(t *testing.T) {
	raw, err := Encode(42, 8, 99, sampleSeats(), time.Now())
	require.NoError(t, err)
	p, err := Decode(raw)
	require.NoError(t, err)

	assert.False(t, p.Matches(storedTicket()))
}

func TestMatchesRejectsForeignSeats(t *testing.T) {
	seats := []model.SeatSnapshot{
		{Row: "A", Number: 1, PriceCents: 500},
		{Row: "B", Number: 9, PriceCents: 450},
	}
	raw, err := Encode(42, 7, 99, seats, time.Now())
	require.NoError(t, err)
	p, err := Decode(raw)
	require.NoError(t, err)

	// B9 is not on the stored ticket; a superset payload fails.
	assert.False(t, p.Matches(storedTicket()))
}

func TestMatchesAcceptsSeatSubset(t *testing.T) {
	raw, err := Encode(42, 7, 99, sampleSeats()[:1], time.Now())
	require.NoError(t, err)
	p, err := Decode(raw)
	require.NoError(t, err)

	assert.True(t, p.Matches(storedTicket()))
}

func TestDecodeNormalizesSeats(t *testing.T) {
	raw := `{"type":"ticket","ticket_id":1,"event_id":2,"holder_id":3,` +
		`"seats":[{"row":" A ","number":1},{"row":"A","number":1}],"iat":1}`
	p, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []model.SeatCoord{{Row: "A", Number: 1}}, p.Seats)
}
