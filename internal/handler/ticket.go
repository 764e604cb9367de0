package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/inventory"
	"github.com/iliyamo/event-ticketing/internal/lifecycle"
	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/monitoring"
	"github.com/iliyamo/event-ticketing/internal/pricing"
	"github.com/iliyamo/event-ticketing/internal/qrpayload"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/repository"
	queuepublisher "github.com/iliyamo/event-ticketing/internal/service"
)

// TicketHandler drives the purchase, refund and check-in flows. Seat
// state goes through the inventory manager only; the database transaction
// here covers the ticket rows, with a compensating Release when the
// transaction fails after seats were already booked.
type TicketHandler struct {
	Inventory *inventory.Manager
	Events    *repository.EventRepo
	Tickets   *repository.TicketRepo
}

// NewTicketHandler constructs a TicketHandler.
func NewTicketHandler(inv *inventory.Manager, e *repository.EventRepo, t *repository.TicketRepo) *TicketHandler {
	return &TicketHandler{Inventory: inv, Events: e, Tickets: t}
}

type purchaseReq struct {
	EventID uint64            `json:"event_id"`
	Seats   []model.SeatCoord `json:"seats"`
}

type validateReq struct {
	Payload string `json:"payload"`
}

// Purchase books the requested seats, prices them from the stored seat
// map and issues one ticket covering all of them. Either the whole
// request succeeds or no seat changes state.
func (h *TicketHandler) Purchase(c echo.Context) error {
	start := time.Now()
	holderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req purchaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, req.EventID)
	if errors.Is(err, repository.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch event failed"})
	}

	snaps, err := h.Inventory.Reserve(ctx, ev.ID, req.Seats)
	if err != nil {
		var nf *inventory.NotFoundError
		var unavail *inventory.UnavailableError
		switch {
		case errors.Is(err, inventory.ErrEmptySelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats selected"})
		case errors.As(err, &nf):
			return c.JSON(http.StatusNotFound, echo.Map{"error": nf.Error()})
		case errors.As(err, &unavail):
			monitoring.ReservationConflict(strconv.FormatUint(ev.ID, 10))
			return c.JSON(http.StatusConflict, echo.Map{"error": unavail.Error()})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reserve failed"})
		}
	}

	// Seats are booked from here on. Any failure before commit must put
	// them back.
	coords := make([]model.SeatCoord, 0, len(snaps))
	for _, s := range snaps {
		coords = append(coords, s.Coord())
	}
	release := func() {
		if rerr := h.Inventory.Release(context.Background(), ev.ID, coords); rerr != nil {
			log.Printf("purchase: compensating release failed for event %d: %v", ev.ID, rerr)
		}
	}

	total, err := pricing.Total(snaps)
	if err != nil {
		release()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pricing failed"})
	}

	tx, err := h.Tickets.DB().BeginTx(ctx, nil)
	if err != nil {
		release()
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
			release()
		}
	}()

	ticket := &model.Ticket{
		EventID:    ev.ID,
		HolderID:   holderID,
		Seats:      snaps,
		TotalCents: total,
		Status:     lifecycle.StatusActive,
	}
	if err := h.Tickets.CreateTx(ctx, tx, ticket); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create ticket failed"})
	}
	payload, err := qrpayload.Encode(ticket.ID, ticket.EventID, ticket.HolderID, ticket.Seats, ticket.CreatedAt)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "encode qr failed"})
	}
	if err := h.Tickets.SetQRPayloadTx(ctx, tx, ticket.ID, payload); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "store qr failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true
	ticket.QRPayload = payload

	eventID := strconv.FormatUint(ev.ID, 10)
	monitoring.TicketIssued(eventID)
	monitoring.ObservePurchase(start)

	labels := make([]string, 0, len(snaps))
	for _, s := range snaps {
		labels = append(labels, fmt.Sprintf("%s%d", s.Row, s.Number))
	}
	go func() {
		bg, bgCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer bgCancel()
		_ = queuepublisher.PublishTicketIssued(bg, queue.TicketIssuedEvent{
			TicketID:   ticket.ID,
			EventID:    ev.ID,
			HolderID:   holderID,
			EventTitle: ev.Title,
			Venue:      ev.Venue,
			StartsAt:   ev.StartsAt.UTC().Format(time.RFC3339),
			SeatLabels: labels,
			TotalCents: total,
			IssuedAt:   ticket.CreatedAt.UTC().Format(time.RFC3339),
		})
	}()

	return c.JSON(http.StatusCreated, echo.Map{"ticket": ticket})
}

// Mine lists the caller's tickets, newest first.
func (h *TicketHandler) Mine(c echo.Context) error {
	holderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tickets, err := h.Tickets.ListByHolder(ctx, holderID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}

// Refund moves the caller's active ticket to REFUNDED and frees its
// seats. Allowed strictly before the event's stored start time.
func (h *TicketHandler) Refund(c echo.Context) error {
	holderID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ticket, err := h.Tickets.GetByIDForHolder(ctx, id, holderID)
	switch {
	case errors.Is(err, repository.ErrTicketNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your ticket"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch ticket failed"})
	}

	ev, err := h.Events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch event failed"})
	}

	next, err := lifecycle.Refund(ticket.Status, ev.StartsAt, time.Now().UTC())
	if err != nil {
		return c.JSON(lifecycleErrorStatus(err), echo.Map{"error": err.Error()})
	}

	tx, err := h.Tickets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Tickets.UpdateStatusTx(ctx, tx, ticket.ID, lifecycle.StatusActive, next); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket changed state, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	// The refund is final once committed. A failed release leaves the
	// seats booked with no active ticket covering them; the log line below
	// is the reconciliation trail, since the ticket has left ACTIVE and no
	// retry path frees them automatically.
	if err := h.Inventory.Release(ctx, ticket.EventID, ticket.SeatCoords()); err != nil {
		log.Printf("refund: release failed for ticket %d, seats %v remain booked: %v",
			ticket.ID, ticket.SeatCoords(), err)
	}
	monitoring.TicketRefunded(strconv.FormatUint(ticket.EventID, 10))

	ticket.Status = next
	return c.JSON(http.StatusOK, echo.Map{"ticket": ticket})
}

// Validate checks a scanned QR payload at the entry gate and checks the
// ticket in. The payload is unsigned, so every identity field is compared
// against the stored ticket before any state changes; the caller must be
// the event's organizer.
func (h *TicketHandler) Validate(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req validateReq
	if err := c.Bind(&req); err != nil || req.Payload == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payload required"})
	}

	p, err := qrpayload.Decode(req.Payload)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "malformed qr payload"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ticket, err := h.Tickets.GetByID(ctx, p.TicketID)
	if errors.Is(err, repository.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch ticket failed"})
	}

	ev, err := h.Events.GetByID(ctx, ticket.EventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch event failed"})
	}
	if ev.OrganizerID != organizerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your event"})
	}

	if !p.Matches(*ticket) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "payload does not match ticket"})
	}

	next, err := lifecycle.CheckIn(ticket.Status)
	if err != nil {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "ticket is not active",
			"status": ticket.Status,
		})
	}

	tx, err := h.Tickets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := h.Tickets.UpdateStatusTx(ctx, tx, ticket.ID, lifecycle.StatusActive, next); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "ticket changed state, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	monitoring.TicketCheckedIn(strconv.FormatUint(ticket.EventID, 10))
	ticket.Status = next
	return c.JSON(http.StatusOK, echo.Map{
		"valid":       true,
		"ticket":      ticket,
		"event_title": ev.Title,
	})
}

// Stats returns an event's sales aggregates to its organizer.
func (h *TicketHandler) Stats(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, eventID)
	if errors.Is(err, repository.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch event failed"})
	}
	if ev.OrganizerID != organizerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your event"})
	}

	stats, err := h.Tickets.StatsByEvent(ctx, eventID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": eventID, "stats": stats})
}
