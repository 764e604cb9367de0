package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundBeforeEventStart(t *testing.T) {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	now := start.Add(-2 * time.Hour)

	next, err := Refund(StatusActive, start, now)
	require.NoError(t, err)
	assert.Equal(t, StatusRefunded, next)
}

func TestRefundWindowClosesAtStartTime(t *testing.T) {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)

	// Exactly at the start time the window is already closed.
	_, err := Refund(StatusActive, start, start)
	assert.ErrorIs(t, err, ErrRefundWindowClosed)

	_, err = Refund(StatusActive, start, start.Add(time.Minute))
	assert.ErrorIs(t, err, ErrRefundWindowClosed)
}

func TestRefundRejectsTerminalStates(t *testing.T) {
	start := time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC)
	now := start.Add(-time.Hour)

	_, err := Refund(StatusRefunded, start, now)
	assert.ErrorIs(t, err, ErrTicketNotActive)

	_, err = Refund(StatusCheckedIn, start, now)
	assert.ErrorIs(t, err, ErrTicketNotActive)
}

func TestCheckInFromActive(t *testing.T) {
	next, err := CheckIn(StatusActive)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckedIn, next)
}

func TestSecondCheckInFails(t *testing.T) {
	next, err := CheckIn(StatusActive)
	require.NoError(t, err)

	// A second scan of the same ticket is an error, not a no-op.
	_, err = CheckIn(next)
	assert.ErrorIs(t, err, ErrTicketNotActive)
}

func TestCheckInRejectsRefunded(t *testing.T) {
	_, err := CheckIn(StatusRefunded)
	assert.ErrorIs(t, err, ErrTicketNotActive)
}

func TestUnknownStatusRejected(t *testing.T) {
	_, err := CheckIn(Status("PENDING"))
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = Refund(Status(""), time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestTerminal(t *testing.T) {
	assert.False(t, StatusActive.Terminal())
	assert.True(t, StatusRefunded.Terminal())
	assert.True(t, StatusCheckedIn.Terminal())
}
