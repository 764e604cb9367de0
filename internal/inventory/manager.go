// Package inventory owns seat availability for events. Reserve and
// Release are the only paths that flip a seat between free and booked,
// and both run under a per-event lock so a check-then-mark sequence is
// never interleaved with another caller's: either every requested seat is
// free and all get booked, or nothing changes.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// SeatStore is the persistence port the manager drives. Implementations
// do not need to provide their own cross-call atomicity; the manager
// serializes all access per event. SeatsByCoords returns only the seats
// that exist (missing coordinates are simply absent from the result).
type SeatStore interface {
	SeatsByCoords(ctx context.Context, eventID uint64, coords []model.SeatCoord) ([]model.Seat, error)
	SetBooked(ctx context.Context, eventID uint64, coords []model.SeatCoord, booked bool) error
}

// ErrEmptySelection is returned when no valid coordinates remain after
// normalization. A zero-seat purchase is an error, never a no-op success.
var ErrEmptySelection = errors.New("no seats selected")

// NotFoundError reports coordinates that do not exist on the event.
type NotFoundError struct {
	EventID uint64
	Coords  []model.SeatCoord
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("event %d: unknown seats %s", e.EventID, joinCoords(e.Coords))
}

// UnavailableError reports which of the caller's requested seats are
// already booked. It never names seats outside the request.
type UnavailableError struct {
	EventID uint64
	Coords  []model.SeatCoord
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("event %d: seats %s already booked", e.EventID, joinCoords(e.Coords))
}

func joinCoords(coords []model.SeatCoord) string {
	parts := make([]string, 0, len(coords))
	for _, c := range coords {
		parts = append(parts, fmt.Sprintf("%s%d", c.Row, c.Number))
	}
	return strings.Join(parts, ",")
}

// Manager guards every event's seat map with its own mutex. Seat maps of
// different events are independent, so cross-event operations never block
// each other.
type Manager struct {
	store SeatStore

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex
}

// NewManager returns a Manager over the given store.
func NewManager(store SeatStore) *Manager {
	if store == nil {
		panic("nil SeatStore passed to NewManager")
	}
	return &Manager{store: store, locks: make(map[uint64]*sync.Mutex)}
}

// eventLock returns the mutex for one event, creating it on first use.
func (m *Manager) eventLock(eventID uint64) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[eventID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[eventID] = l
	}
	return l
}

// Reserve atomically books the requested seats of one event. On success
// it returns the concrete seat snapshots, sorted by row then number, for
// downstream pricing and persistence. Failure modes, each distinct:
// ErrEmptySelection, *NotFoundError, *UnavailableError. On any failure no
// seat state changes.
func (m *Manager) Reserve(ctx context.Context, eventID uint64, coords []model.SeatCoord) ([]model.SeatSnapshot, error) {
	coords = model.NormalizeCoords(coords)
	if len(coords) == 0 {
		return nil, ErrEmptySelection
	}

	l := m.eventLock(eventID)
	l.Lock()
	seats, err := m.store.SeatsByCoords(ctx, eventID, coords)
	if err != nil {
		l.Unlock()
		return nil, err
	}
	byCoord := make(map[model.SeatCoord]model.Seat, len(seats))
	for _, s := range seats {
		byCoord[s.Coord()] = s
	}
	var missing, taken []model.SeatCoord
	for _, c := range coords {
		s, ok := byCoord[c]
		switch {
		case !ok:
			missing = append(missing, c)
		case s.IsBooked:
			taken = append(taken, c)
		}
	}
	if len(missing) > 0 {
		l.Unlock()
		model.SortCoords(missing)
		return nil, &NotFoundError{EventID: eventID, Coords: missing}
	}
	if len(taken) > 0 {
		l.Unlock()
		model.SortCoords(taken)
		return nil, &UnavailableError{EventID: eventID, Coords: taken}
	}
	if err := m.store.SetBooked(ctx, eventID, coords, true); err != nil {
		l.Unlock()
		return nil, err
	}
	l.Unlock()

	// Snapshot assembly happens outside the critical section.
	snaps := make([]model.SeatSnapshot, 0, len(coords))
	for _, c := range coords {
		s := byCoord[c]
		snaps = append(snaps, model.SeatSnapshot{Row: s.Row, Number: s.Number, PriceCents: s.PriceCents})
	}
	model.SortSnapshots(snaps)
	return snaps, nil
}

// Release marks the given seats free again. It is idempotent: seats that
// are already free stay free, and coordinates that do not exist on the
// event are logged and skipped, so a retried refund can never be blocked
// by an earlier partial release.
func (m *Manager) Release(ctx context.Context, eventID uint64, coords []model.SeatCoord) error {
	coords = model.NormalizeCoords(coords)
	if len(coords) == 0 {
		return nil
	}

	l := m.eventLock(eventID)
	l.Lock()
	defer l.Unlock()

	seats, err := m.store.SeatsByCoords(ctx, eventID, coords)
	if err != nil {
		return err
	}
	known := make(map[model.SeatCoord]struct{}, len(seats))
	for _, s := range seats {
		known[s.Coord()] = struct{}{}
	}
	found := coords[:0]
	for _, c := range coords {
		if _, ok := known[c]; ok {
			found = append(found, c)
		} else {
			log.Printf("inventory: release of unknown seat %s%d on event %d, skipping", c.Row, c.Number, eventID)
		}
	}
	if len(found) == 0 {
		return nil
	}
	return m.store.SetBooked(ctx, eventID, found, false)
}
