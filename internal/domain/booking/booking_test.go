package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

func activeBooking(t *testing.T) *Booking {
	t.Helper()
	stay, err := daterange.New(
		time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	b, err := New(CreateParams{
		ID:         "booking-1",
		ListingID:  "listing-1",
		GuestID:    "guest-1",
		Stay:       stay,
		TotalPrice: money.Must(24000, "EUR"),
		RequestID:  "req-1",
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	return b
}

func TestNewRequiresRequestBackReference(t *testing.T) {
	_, err := New(CreateParams{ID: "booking-1", GuestID: "guest-1"})
	assert.Error(t, err)
}

func TestRepriceUsesNightlyRate(t *testing.T) {
	b := activeBooking(t)
	b.Reprice(money.Must(10000, "EUR"))

	// two nights at the listing rate, regardless of the request quote
	assert.Equal(t, int64(20000), b.TotalPrice.Amount)
}

func TestRescheduleMovesStay(t *testing.T) {
	b := activeBooking(t)
	err := b.Reschedule(
		time.Date(2026, 11, 5, 16, 0, 0, 0, time.UTC),
		time.Date(2026, 11, 8, 10, 0, 0, 0, time.UTC),
		time.Now(),
	)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC), b.Stay.CheckIn)
	assert.Equal(t, time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC), b.Stay.CheckOut)

	events := b.PendingEvents()
	require.Len(t, events, 1)
	altered, ok := events[0].(BookingAltered)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), altered.Previous.CheckIn)
}

func TestRescheduleRejectsReversedDates(t *testing.T) {
	b := activeBooking(t)
	err := b.Reschedule(
		time.Date(2026, 11, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 11, 5, 0, 0, 0, 0, time.UTC),
		time.Now(),
	)
	require.ErrorIs(t, err, ErrInvalidDateRange)
	assert.Contains(t, err.Error(), "Check-out date must be after check-in date")

	// stay unchanged on failure
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), b.Stay.CheckIn)
}
