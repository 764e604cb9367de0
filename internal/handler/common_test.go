package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-ticketing/internal/lifecycle"
)

func newContext() echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestLifecycleErrorStatusMapsConflicts(t *testing.T) {
	// Both state machine rejections describe a conflict with current
	// ticket state, so they share the 409 mapping.
	assert.Equal(t, http.StatusConflict, lifecycleErrorStatus(lifecycle.ErrTicketNotActive))
	assert.Equal(t, http.StatusConflict, lifecycleErrorStatus(lifecycle.ErrRefundWindowClosed))
}

func TestLifecycleErrorStatusDefaultsToInternal(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, lifecycleErrorStatus(lifecycle.ErrUnknownStatus))
	assert.Equal(t, http.StatusInternalServerError, lifecycleErrorStatus(errors.New("boom")))
}

func TestGetUserIDAcceptsJWTClaimTypes(t *testing.T) {
	// Numeric JWT claims arrive as float64 after JSON parsing.
	c := newContext()
	c.Set("user_id", float64(42))
	id, err := getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c = newContext()
	c.Set("user_id", "17")
	id, err = getUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint64(17), id)
}

func TestGetUserIDRejectsMissingClaim(t *testing.T) {
	_, err := getUserID(newContext())
	assert.Error(t, err)

	c := newContext()
	c.Set("user_id", "not-a-number")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	c := newContext()
	c.SetParamNames("id")
	c.SetParamValues("33")
	id, ok := pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint64(33), id)

	for _, bad := range []string{"0", "-1", "abc", ""} {
		c := newContext()
		c.SetParamNames("id")
		c.SetParamValues(bad)
		_, ok := pathID(c, "id")
		assert.False(t, ok, "value %q must be rejected", bad)
	}
}
