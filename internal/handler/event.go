package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/model"
	"github.com/iliyamo/event-ticketing/internal/repository"
)

// EventHandler covers organizer event management and the public catalog.
type EventHandler struct {
	Events *repository.EventRepo
	Seats  *repository.SeatRepo
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(e *repository.EventRepo, s *repository.SeatRepo) *EventHandler {
	return &EventHandler{Events: e, Seats: s}
}

type seatReq struct {
	Row        string `json:"row"`
	Number     uint32 `json:"number"`
	Category   string `json:"category"`
	PriceCents uint32 `json:"price_cents"`
}

type createEventReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
	Capacity    uint32    `json:"capacity"`
	Seats       []seatReq `json:"seats"`
}

type updateEventReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
}

// Create inserts an event together with its full seat map in one
// transaction. Seat prices are fixed here; there is no later price edit.
func (h *EventHandler) Create(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.Venue == "" || req.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/venue/starts_at required"})
	}

	seats := make([]model.Seat, 0, len(req.Seats))
	for _, s := range req.Seats {
		seats = append(seats, model.Seat{
			Row:        s.Row,
			Number:     s.Number,
			Category:   s.Category,
			PriceCents: s.PriceCents,
		})
	}
	if err := model.ValidateSeatMap(req.Capacity, seats); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	tx, err := h.Events.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "begin tx failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ev := &model.Event{
		OrganizerID: organizerID,
		Title:       req.Title,
		Description: req.Description,
		Venue:       req.Venue,
		StartsAt:    req.StartsAt.UTC(),
		Capacity:    req.Capacity,
	}
	if err := h.Events.CreateTx(ctx, tx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	if err := h.Seats.CreateBulkTx(ctx, tx, ev.ID, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seat map failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{"event": ev})
}

// Update changes an event's metadata. The seat map is immutable.
func (h *EventHandler) Update(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req updateEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.Venue == "" || req.StartsAt.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/venue/starts_at required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Events.UpdateMeta(ctx, id, organizerID, req.Title, req.Description, req.Venue, req.StartsAt)
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your event"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event": ev})
}

// Delete removes an event that has no tickets yet.
func (h *EventHandler) Delete(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err = h.Events.Delete(ctx, id, organizerID)
	switch {
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your event"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "event has tickets"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns the public event catalog, optionally filtered by
// ?date=2026-09-01 (UTC day) and ?venue=....
func (h *EventHandler) List(c echo.Context) error {
	var day *time.Time
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		day = &d
	}
	venue := c.QueryParam("venue")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.List(ctx, day, venue)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Get returns one event's details.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if errors.Is(err, repository.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event": ev})
}

// SeatMap returns an event's full seat map with live availability, so
// buyers can pick free seats before a purchase.
func (h *EventHandler) SeatMap(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Events.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "fetch failed"})
	}
	seats, err := h.Seats.MapByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seat map failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"event_id": id, "seats": seats})
}
