// Package lifecycle models the ticket status state machine. A ticket is
// created ACTIVE and moves to exactly one of the terminal states REFUNDED
// or CHECKED_IN; there is no way back to ACTIVE. Illegal transitions are
// rejected instead of written through.
package lifecycle

import (
	"errors"
	"time"
)

// Status is a ticket's lifecycle state as stored in tickets.status.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusRefunded  Status = "REFUNDED"
	StatusCheckedIn Status = "CHECKED_IN"
)

var (
	// ErrTicketNotActive is returned when a transition is attempted on a
	// ticket that already reached a terminal state. A second check-in scan
	// fails with this error; it is not treated as idempotent success.
	ErrTicketNotActive = errors.New("ticket is not active")
	// ErrRefundWindowClosed is returned when a refund is attempted at or
	// after the event's scheduled start time.
	ErrRefundWindowClosed = errors.New("refund window closed")
	// ErrUnknownStatus is returned for a status value outside the enum,
	// which indicates corrupted ticket data.
	ErrUnknownStatus = errors.New("unknown ticket status")
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusRefunded, StatusCheckedIn:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusRefunded || s == StatusCheckedIn
}

// Refund returns the successor state for a refund request. The guard is
// evaluated against the associated event's stored start time, never a
// client-supplied clock: the refund must happen strictly before the event
// starts.
func Refund(current Status, eventStart, now time.Time) (Status, error) {
	if !current.Valid() {
		return current, ErrUnknownStatus
	}
	if current != StatusActive {
		return current, ErrTicketNotActive
	}
	if !now.Before(eventStart) {
		return current, ErrRefundWindowClosed
	}
	return StatusRefunded, nil
}

// CheckIn returns the successor state for an entry-gate scan. Field
// cross-checks between the QR payload and the stored ticket happen before
// this is called; CheckIn only enforces the state machine.
func CheckIn(current Status) (Status, error) {
	if !current.Valid() {
		return current, ErrUnknownStatus
	}
	if current != StatusActive {
		return current, ErrTicketNotActive
	}
	return StatusCheckedIn, nil
}
