// Package handler defines the HTTP handlers. Request parsing and status
// mapping live here; seat and ticket semantics live in the inventory,
// lifecycle, pricing and qrpayload packages.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-ticketing/internal/lifecycle"
)

// getUserID extracts the authenticated user id stored by the JWT
// middleware and converts it to uint64. JWT numeric claims arrive as
// float64 after JSON parsing.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// lifecycleErrorStatus maps state machine failures to HTTP statuses.
// Illegal transitions and a closed refund window are both conflicts with
// the ticket's current state, never validation problems with the request.
func lifecycleErrorStatus(err error) int {
	switch {
	case errors.Is(err, lifecycle.ErrTicketNotActive),
		errors.Is(err, lifecycle.ErrRefundWindowClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
