// Package monitoring exposes Prometheus metrics for the ticket
// lifecycle. Counters are registered through promauto and served on
// /metrics by the router.
package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Tickets successfully purchased per event",
		},
		[]string{"event_id"},
	)

	ticketsRefunded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_refunded_total",
			Help: "Tickets refunded per event",
		},
		[]string{"event_id"},
	)

	ticketsCheckedIn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_checked_in_total",
			Help: "Tickets checked in at the gate per event",
		},
		[]string{"event_id"},
	)

	reservationConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_reservation_conflicts_total",
			Help: "Reserve attempts rejected because a requested seat was already booked",
		},
		[]string{"event_id"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "purchase_duration_seconds",
			Help:    "Wall time of the purchase path including reservation and persistence",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)
)

// TicketIssued records a successful purchase.
func TicketIssued(eventID string) { ticketsIssued.WithLabelValues(eventID).Inc() }

// TicketRefunded records a successful refund.
func TicketRefunded(eventID string) { ticketsRefunded.WithLabelValues(eventID).Inc() }

// TicketCheckedIn records a successful gate check-in.
func TicketCheckedIn(eventID string) { ticketsCheckedIn.WithLabelValues(eventID).Inc() }

// ReservationConflict records a reserve rejected on booked seats.
func ReservationConflict(eventID string) { reservationConflicts.WithLabelValues(eventID).Inc() }

// ObservePurchase records the duration of one purchase request.
func ObservePurchase(start time.Time) { purchaseDuration.Observe(time.Since(start).Seconds()) }
