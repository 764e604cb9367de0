// Package qrpayload encodes and decodes the string embedded in a ticket's
// QR code. The payload is a plain JSON object carrying the ticket's
// identity fields and the seat coordinates (no prices). It is opaque to
// the holder but carries no signature, so decoding alone never authorizes
// anything: the validate path re-fetches the ticket by id and compares
// every field against stored state before a check-in.
package qrpayload

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// TypeTag is the fixed discriminator every payload starts with.
const TypeTag = "ticket"

// ErrMalformedPayload is returned when a scanned string cannot be parsed
// into the expected shape or carries the wrong type tag.
var ErrMalformedPayload = errors.New("malformed qr payload")

// Payload is the decoded form of a QR string.
type Payload struct {
	Type     string            `json:"type"`
	TicketID uint64            `json:"ticket_id"`
	EventID  uint64            `json:"event_id"`
	HolderID uint64            `json:"holder_id"`
	Seats    []model.SeatCoord `json:"seats"`
	IssuedAt int64             `json:"iat"`
}

// Encode serializes a ticket's identity into the QR string. Only seat
// coordinates are embedded; snapshot prices stay server-side.
func Encode(ticketID, eventID, holderID uint64, seats []model.SeatSnapshot, issuedAt time.Time) (string, error) {
	if ticketID == 0 || eventID == 0 || holderID == 0 || len(seats) == 0 {
		return "", fmt.Errorf("%w: incomplete ticket identity", ErrMalformedPayload)
	}
	coords := make([]model.SeatCoord, 0, len(seats))
	for _, s := range seats {
		coords = append(coords, s.Coord())
	}
	p := Payload{
		Type:     TypeTag,
		TicketID: ticketID,
		EventID:  eventID,
		HolderID: holderID,
		Seats:    coords,
		IssuedAt: issuedAt.UTC().UnixMilli(),
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Matches reports whether the payload's identity fields agree with the
// stored ticket: same event, same holder, and every payload seat present
// on the ticket. The gate must reject any payload failing this check, so
// a payload replayed against another holder's ticket never checks in,
// even when event and seats line up.
func (p *Payload) Matches(t model.Ticket) bool {
	return p.EventID == t.EventID &&
		p.HolderID == t.HolderID &&
		t.CoversSeats(p.Seats)
}

// Decode parses a scanned string back into its fields. It rejects
// anything that is not a JSON object with the "ticket" type tag, a
// positive ticket/event/holder id and a non-empty seat list. Unknown
// fields are rejected so a payload with extra smuggled keys fails loudly.
func Decode(raw string) (*Payload, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedPayload)
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformedPayload)
	}
	if p.Type != TypeTag {
		return nil, fmt.Errorf("%w: unexpected type tag %q", ErrMalformedPayload, p.Type)
	}
	if p.TicketID == 0 || p.EventID == 0 || p.HolderID == 0 {
		return nil, fmt.Errorf("%w: missing identity fields", ErrMalformedPayload)
	}
	p.Seats = model.NormalizeCoords(p.Seats)
	if len(p.Seats) == 0 {
		return nil, fmt.Errorf("%w: no seats", ErrMalformedPayload)
	}
	return &p, nil
}
