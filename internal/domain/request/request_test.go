package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func newPending(t *testing.T) *BookingRequest {
	t.Helper()
	stay, err := daterange.New(
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	req, err := New(CreateParams{
		ID:         "req-1",
		ListingID:  "listing-1",
		GuestID:    "guest-1",
		Stay:       stay,
		Guests:     2,
		TotalPrice: money.Must(24000, "EUR"),
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	return req
}

func TestNewStartsPendingAndRecordsEvent(t *testing.T) {
	req := newPending(t)

	assert.Equal(t, StatusPending, req.Status)
	events := req.PendingEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "request.created", events[0].EventName())
}

func TestNewRejectsNonPositiveGuests(t *testing.T) {
	_, err := New(CreateParams{ID: "req-1", GuestID: "guest-1", Guests: 0})
	assert.ErrorIs(t, err, ErrInvalidGuests)
}

func TestAcceptFromPending(t *testing.T) {
	req := newPending(t)
	require.NoError(t, req.Accept(time.Now()))
	assert.Equal(t, StatusAccepted, req.Status)
}

func TestAcceptIsNotRepeatable(t *testing.T) {
	req := newPending(t)
	require.NoError(t, req.Accept(time.Now()))
	assert.ErrorIs(t, req.Accept(time.Now()), ErrInvalidTransition)
}

func TestRejectFromPending(t *testing.T) {
	req := newPending(t)
	require.NoError(t, req.Reject(time.Now()))
	assert.Equal(t, StatusRejected, req.Status)
}

func TestRejectReversesAcceptance(t *testing.T) {
	req := newPending(t)
	require.NoError(t, req.Accept(time.Now()))
	req.ClearEvents()

	require.NoError(t, req.Reject(time.Now()))
	assert.Equal(t, StatusRejected, req.Status)

	events := req.PendingEvents()
	require.Len(t, events, 1)
	rejected, ok := events[0].(RequestRejected)
	require.True(t, ok)
	assert.True(t, rejected.Reversal)
}

func TestRejectedIsTerminal(t *testing.T) {
	req := newPending(t)
	require.NoError(t, req.Reject(time.Now()))

	assert.ErrorIs(t, req.Accept(time.Now()), ErrInvalidTransition)
	assert.ErrorIs(t, req.Reject(time.Now()), ErrInvalidTransition)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusPending))
	assert.True(t, ValidStatus(StatusAccepted))
	assert.True(t, ValidStatus(StatusRejected))
	assert.False(t, ValidStatus("CANCELLED"))
}
