// Package pricing derives a ticket's total from the seat snapshots the
// inventory returned. Purchase requests carry only coordinates; prices
// always come from the event's own seat records.
package pricing

import (
	"errors"
	"math"

	"github.com/iliyamo/event-ticketing/internal/model"
)

// ErrInvalidPricing indicates corrupted seat data: a zero seat price, a
// zero total or a sum that overflows the cents column. Requests failing
// with it must not be retried.
var ErrInvalidPricing = errors.New("invalid seat pricing")

// Total sums the snapshot prices in cents. A free ticket is never issued
// silently: zero prices and empty totals are rejected.
func Total(seats []model.SeatSnapshot) (uint32, error) {
	var sum uint64
	for _, s := range seats {
		if s.PriceCents == 0 {
			return 0, ErrInvalidPricing
		}
		sum += uint64(s.PriceCents)
	}
	if sum == 0 || sum > math.MaxUint32 {
		return 0, ErrInvalidPricing
	}
	return uint32(sum), nil
}
