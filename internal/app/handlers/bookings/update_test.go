package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/outbox"
	"staybook/internal/app/policies"
	domainbooking "staybook/internal/domain/booking"
	domaininventory "staybook/internal/domain/inventory"
	domainrequest "staybook/internal/domain/request"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
	domainuser "staybook/internal/domain/user"
	"staybook/internal/infra/storage/memory"
)

func date(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

type noteSink struct {
	altered []policies.AlterationNote
}

func (n *noteSink) BookingRequestCreated(context.Context, policies.RequestCreatedNote) error {
	return nil
}

func (n *noteSink) BookingDecided(context.Context, policies.DecisionNote) error { return nil }

func (n *noteSink) BookingAltered(_ context.Context, note policies.AlterationNote) error {
	n.altered = append(n.altered, note)
	return nil
}

func TestUpdateBookingMovesDatesWithoutTouchingInventory(t *testing.T) {
	store := memory.NewStore()
	store.PutUser(&domainuser.User{ID: "guest-1", FirstName: "Ana", ContactEmails: []string{"ana@example.com"}})

	stay, err := daterange.New(date(1), date(3))
	require.NoError(t, err)
	bkg, err := domainbooking.New(domainbooking.CreateParams{
		ID:         "booking-1",
		ListingID:  "listing-1",
		GuestID:    "guest-1",
		Stay:       stay,
		TotalPrice: money.Must(200, "USD"),
		RequestID:  "req-1",
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	store.PutBooking(bkg)

	for _, d := range []int{1, 2} {
		day := domaininventory.NewDay("listing-1", date(d), money.Must(100, "USD"))
		require.NoError(t, day.Claim("booking-1"))
		store.PutDay(day)
	}

	sink := &noteSink{}
	h := &UpdateBookingHandler{
		UoWFactory: memory.Factory{Store: store},
		Notifier:   sink,
		Outbox:     memory.NewOutbox(),
		Encoder:    outbox.JSONEventEncoder{},
	}

	view, err := h.Handle(context.Background(), UpdateBookingCommand{
		BookingID: "booking-1",
		CheckIn:   date(10),
		CheckOut:  date(13),
	})
	require.NoError(t, err)
	assert.Equal(t, date(10), view.CheckIn)
	assert.Equal(t, date(13), view.CheckOut)

	stored, ok := store.Booking("booking-1")
	require.True(t, ok)
	assert.Equal(t, date(10), stored.Stay.CheckIn)

	// the old days stay claimed and the new range gets no rows
	for _, d := range []int{1, 2} {
		day, ok := store.Day("listing-1", date(d))
		require.True(t, ok)
		assert.Equal(t, "booking-1", day.BookingID)
	}
	_, ok = store.Day("listing-1", date(10))
	assert.False(t, ok)

	require.Len(t, sink.altered, 1)
	assert.Equal(t, "ana@example.com", sink.altered[0].GuestEmail)
}

func TestUpdateBookingRejectsReversedDates(t *testing.T) {
	store := memory.NewStore()
	stay, err := daterange.New(date(1), date(3))
	require.NoError(t, err)
	bkg, err := domainbooking.New(domainbooking.CreateParams{
		ID:         "booking-1",
		ListingID:  "listing-1",
		GuestID:    "guest-1",
		Stay:       stay,
		TotalPrice: money.Must(200, "USD"),
		RequestID:  "req-1",
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	store.PutBooking(bkg)

	h := &UpdateBookingHandler{UoWFactory: memory.Factory{Store: store}}
	_, err = h.Handle(context.Background(), UpdateBookingCommand{
		BookingID: "booking-1",
		CheckIn:   date(13),
		CheckOut:  date(10),
	})
	require.ErrorIs(t, err, domainbooking.ErrInvalidDateRange)
	assert.Contains(t, err.Error(), "Check-out date must be after check-in date")
}

func TestUpdateBookingUnknownID(t *testing.T) {
	h := &UpdateBookingHandler{UoWFactory: memory.Factory{Store: memory.NewStore()}}
	_, err := h.Handle(context.Background(), UpdateBookingCommand{
		BookingID: "nope",
		CheckIn:   date(1),
		CheckOut:  date(2),
	})
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestListGuestBookings(t *testing.T) {
	store := memory.NewStore()
	stay, err := daterange.New(date(1), date(3))
	require.NoError(t, err)
	for _, id := range []string{"booking-1", "booking-2"} {
		bkg, err := domainbooking.New(domainbooking.CreateParams{
			ID:         domainbooking.BookingID(id),
			ListingID:  "listing-1",
			GuestID:    "guest-1",
			Stay:       stay,
			TotalPrice: money.Must(200, "USD"),
			RequestID:  domainrequest.RequestID("req-" + id),
			CreatedAt:  time.Now(),
		})
		require.NoError(t, err)
		store.PutBooking(bkg)
	}

	h := &ListGuestBookingsHandler{UoWFactory: memory.Factory{Store: store}}
	out, err := h.Handle(context.Background(), ListGuestBookingsQuery{GuestID: "guest-1"})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	other, err := h.Handle(context.Background(), ListGuestBookingsQuery{GuestID: "guest-2"})
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}
