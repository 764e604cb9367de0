package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/pricing"
)

// memSeatStore is an in-memory SeatStore. It deliberately has no internal
// locking around the read-then-write sequence so the tests prove the
// manager's per-event lock is what provides atomicity.
type memSeatStore struct {
	mu    sync.Mutex
	seats map[uint64]map[model.SeatCoord]*model.Seat
}

func newMemSeatStore() *memSeatStore {
	return &memSeatStore{seats: make(map[uint64]map[model.SeatCoord]*model.Seat)}
}

func (s *memSeatStore) add(eventID uint64, seat model.Seat) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seats[eventID] == nil {
		s.seats[eventID] = make(map[model.SeatCoord]*model.Seat)
	}
	stored := seat
	s.seats[eventID][seat.Coord()] = &stored
}

func (s *memSeatStore) SeatsByCoords(ctx context.Context, eventID uint64, coords []model.SeatCoord) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Seat
	for _, c := range coords {
		if seat, ok := s.seats[eventID][c]; ok {
			out = append(out, *seat)
		}
	}
	return out, nil
}

func (s *memSeatStore) SetBooked(ctx context.Context, eventID uint64, coords []model.SeatCoord, booked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range coords {
		if seat, ok := s.seats[eventID][c]; ok {
			seat.IsBooked = booked
		}
	}
	return nil
}

func (s *memSeatStore) booked(eventID uint64, c model.SeatCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[eventID][c]
	return ok && seat.IsBooked
}

func seedEvent(store *memSeatStore, eventID uint64) {
	store.add(eventID, model.Seat{Row: "A", Number: 1, Category: "standard", PriceCents: 500})
	store.add(eventID, model.Seat{Row: "A", Number: 2, Category: "standard", PriceCents: 500})
	store.add(eventID, model.Seat{Row: "B", Number: 1, Category: "balcony", PriceCents: 450})
}

func TestReserveSuccessMarksSeatsAndReturnsSnapshots(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)

	snaps, err := m.Reserve(context.Background(), 1, []model.SeatCoord{
		{Row: "B", Number: 1},
		{Row: "A", Number: 2},
		{Row: "A", Number: 1},
	})
	require.NoError(t, err)
	require.Len(t, snaps, 3)

	// Snapshots come back sorted by row, then number, with prices.
	assert.Equal(t, model.SeatSnapshot{Row: "A", Number: 1, PriceCents: 500}, snaps[0])
	assert.Equal(t, model.SeatSnapshot{Row: "A", Number: 2, PriceCents: 500}, snaps[1])
	assert.Equal(t, model.SeatSnapshot{Row: "B", Number: 1, PriceCents: 450}, snaps[2])

	assert.True(t, store.booked(1, model.SeatCoord{Row: "A", Number: 1}))
	assert.True(t, store.booked(1, model.SeatCoord{Row: "A", Number: 2}))
	assert.True(t, store.booked(1, model.SeatCoord{Row: "B", Number: 1}))
}

func TestReserveEmptySelection(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)

	_, err := m.Reserve(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrEmptySelection)

	// Blank rows and zero numbers normalize away to nothing.
	_, err = m.Reserve(context.Background(), 1, []model.SeatCoord{{Row: "  ", Number: 1}, {Row: "A", Number: 0}})
	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestReserveUnknownSeats(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)

	_, err := m.Reserve(context.Background(), 1, []model.SeatCoord{
		{Row: "A", Number: 1},
		{Row: "Z", Number: 99},
	})
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, []model.SeatCoord{{Row: "Z", Number: 99}}, nf.Coords)

	// The valid seat in the failed request must stay free.
	assert.False(t, store.booked(1, model.SeatCoord{Row: "A", Number: 1}))
}

func TestReserveConflictLeavesNoPartialBooking(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)

	_, err := m.Reserve(context.Background(), 1, []model.SeatCoord{{Row: "A", Number: 2}})
	require.NoError(t, err)

	_, err = m.Reserve(context.Background(), 1, []model.SeatCoord{
		{Row: "A", Number: 1},
		{Row: "A", Number: 2},
	})
	var unavail *UnavailableError
	require.True(t, errors.As(err, &unavail))
	assert.Equal(t, []model.SeatCoord{{Row: "A", Number: 2}}, unavail.Coords)

	// All-or-nothing: A1 was free and requested, but must remain free.
	assert.False(t, store.booked(1, model.SeatCoord{Row: "A", Number: 1}))
}

func TestConcurrentOverlappingReservesExactlyOneWins(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)

	const attempts = 32
	target := []model.SeatCoord{{Row: "A", Number: 1}, {Row: "B", Number: 1}}

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = m.Reserve(context.Background(), 1, target)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		var unavail *UnavailableError
		require.True(t, errors.As(err, &unavail), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, wins)
	assert.True(t, store.booked(1, model.SeatCoord{Row: "A", Number: 1}))
	assert.True(t, store.booked(1, model.SeatCoord{Row: "B", Number: 1}))
	// A2 was never requested and must be untouched.
	assert.False(t, store.booked(1, model.SeatCoord{Row: "A", Number: 2}))
}

func TestReleaseFreesSeatsForRebooking(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)
	ctx := context.Background()

	coords := []model.SeatCoord{{Row: "A", Number: 1}, {Row: "A", Number: 2}}
	_, err := m.Reserve(ctx, 1, coords)
	require.NoError(t, err)

	require.NoError(t, m.Release(ctx, 1, coords))
	assert.False(t, store.booked(1, coords[0]))
	assert.False(t, store.booked(1, coords[1]))

	// Released seats are immediately purchasable again.
	snaps, err := m.Reserve(ctx, 1, coords)
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
}

func TestReleaseIsIdempotentAndSkipsUnknownSeats(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)
	ctx := context.Background()

	coords := []model.SeatCoord{{Row: "A", Number: 1}}
	_, err := m.Reserve(ctx, 1, coords)
	require.NoError(t, err)

	require.NoError(t, m.Release(ctx, 1, coords))
	require.NoError(t, m.Release(ctx, 1, coords))

	// Unknown coordinates never fail a release.
	require.NoError(t, m.Release(ctx, 1, []model.SeatCoord{{Row: "Z", Number: 9}}))
	require.NoError(t, m.Release(ctx, 1, nil))
}

// Full purchase walk-through: one holder books A1+A2, a racing buyer
// wanting A2+B1 is rejected without touching B1, and after a refund the
// freed seats are sold again at the stored price.
func TestPurchaseRefundRebookScenario(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	m := NewManager(store)
	ctx := context.Background()

	first, err := m.Reserve(ctx, 1, []model.SeatCoord{{Row: "A", Number: 1}, {Row: "A", Number: 2}})
	require.NoError(t, err)
	total, err := pricing.Total(first)
	require.NoError(t, err)
	assert.Equal(t, uint32(1000), total)

	_, err = m.Reserve(ctx, 1, []model.SeatCoord{{Row: "A", Number: 2}, {Row: "B", Number: 1}})
	var unavail *UnavailableError
	require.True(t, errors.As(err, &unavail))
	assert.Equal(t, []model.SeatCoord{{Row: "A", Number: 2}}, unavail.Coords)
	assert.False(t, store.booked(1, model.SeatCoord{Row: "B", Number: 1}))

	require.NoError(t, m.Release(ctx, 1, []model.SeatCoord{{Row: "A", Number: 1}, {Row: "A", Number: 2}}))

	second, err := m.Reserve(ctx, 1, []model.SeatCoord{{Row: "A", Number: 1}})
	require.NoError(t, err)
	total, err = pricing.Total(second)
	require.NoError(t, err)
	assert.Equal(t, uint32(500), total)
}

func TestEventsAreIsolated(t *testing.T) {
	store := newMemSeatStore()
	seedEvent(store, 1)
	seedEvent(store, 2)
	m := NewManager(store)
	ctx := context.Background()

	target := []model.SeatCoord{{Row: "A", Number: 1}}
	_, err := m.Reserve(ctx, 1, target)
	require.NoError(t, err)

	// The same coordinate on another event is a different seat.
	_, err = m.Reserve(ctx, 2, target)
	require.NoError(t, err)

	require.NoError(t, m.Release(ctx, 1, target))
	assert.False(t, store.booked(1, target[0]))
	assert.True(t, store.booked(2, target[0]))
}
