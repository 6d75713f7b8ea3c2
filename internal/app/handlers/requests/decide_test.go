package requests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/outbox"
	"staybook/internal/app/uow"
	domaininventory "staybook/internal/domain/inventory"
	domainrequest "staybook/internal/domain/request"
	"staybook/internal/domain/shared/money"
	"staybook/internal/infra/storage/memory"
)

func (f fixture) decideHandler() *ChangeStatusHandler {
	return &ChangeStatusHandler{
		UoWFactory:   memory.Factory{Store: f.store},
		Notifier:     f.notifier,
		Outbox:       f.outbox,
		Encoder:      outbox.JSONEventEncoder{},
		NewBookingID: func() string { return "booking-1" },
	}
}

func (f fixture) createPending(t *testing.T, id string) {
	t.Helper()
	_, err := f.createHandler().Handle(context.Background(), CreateRequestCommand{
		CommandID: id,
		ListingID: "listing-1",
		GuestID:   "guest-1",
		CheckIn:   date(1),
		CheckOut:  date(3),
		Guests:    2,
	})
	require.NoError(t, err)
}

func TestAcceptClaimsDaysAndCreatesBooking(t *testing.T) {
	f := newFixture()
	f.seedDay(1, true, 120)
	// 2026-10-02 has no stored row; acceptance creates it lazily
	f.createPending(t, "req-1")

	result, err := f.decideHandler().Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1",
		NewStatus: "ACCEPTED",
		HostID:    "host-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "ACCEPTED", result.Status)

	req, ok := f.store.Request("req-1")
	require.True(t, ok)
	assert.Equal(t, domainrequest.StatusAccepted, req.Status)

	bkg, ok := f.store.Booking("booking-1")
	require.True(t, ok)
	// booking total is nights times the listing rate, not the request quote
	assert.Equal(t, int64(200), bkg.TotalPrice.Amount)
	assert.Equal(t, domainrequest.RequestID("req-1"), bkg.RequestID)

	for _, d := range []int{1, 2} {
		day, ok := f.store.Day("listing-1", date(d))
		require.True(t, ok)
		assert.False(t, day.Available)
		assert.Equal(t, "booking-1", day.BookingID)
	}
	assert.Equal(t, 2, f.store.DayCount("listing-1"))

	require.Len(t, f.notifier.decided, 1)
	assert.Equal(t, "ana@example.com", f.notifier.decided[0].GuestEmail)
	assert.Equal(t, "ACCEPTED", f.notifier.decided[0].Status)
}

func TestAcceptLosesRaceToEarlierCommit(t *testing.T) {
	f := newFixture()
	f.seedDay(1, true, 120)
	f.seedDay(2, true, 120)
	f.createPending(t, "req-1")
	f.createPending(t, "req-2")

	// the second acceptance's unit opens before the first one commits
	late, err := memory.Factory{Store: f.store}.Begin(context.Background(), uow.TxOptions{})
	require.NoError(t, err)
	lateCtx := uow.Bind(context.Background(), late)

	handler := f.decideHandler()
	_, err = handler.Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1",
		NewStatus: "ACCEPTED",
		HostID:    "host-1",
	})
	require.NoError(t, err)

	// the stale unit still sees both days free, so the handler succeeds
	handler.NewBookingID = func() string { return "booking-2" }
	_, err = handler.Handle(lateCtx, ChangeStatusCommand{
		RequestID: "req-2",
		NewStatus: "ACCEPTED",
		HostID:    "host-1",
	})
	require.NoError(t, err)

	// first committer wins; the stale unit must not land
	require.ErrorIs(t, late.Commit(lateCtx), memory.ErrConcurrentUpdate)

	day, ok := f.store.Day("listing-1", date(1))
	require.True(t, ok)
	assert.Equal(t, "booking-1", day.BookingID)

	req, ok := f.store.Request("req-2")
	require.True(t, ok)
	assert.Equal(t, domainrequest.StatusPending, req.Status)
	assert.Equal(t, 1, f.store.BookingCount())
}

func TestAcceptFailsWhenDayTakenAndRollsBack(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")

	day := domaininventory.NewDay("listing-1", date(2), money.Must(100, "USD"))
	require.NoError(t, day.Claim("other-booking"))
	f.store.PutDay(day)

	_, err := f.decideHandler().Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1",
		NewStatus: "ACCEPTED",
		HostID:    "host-1",
	})
	require.ErrorIs(t, err, domaininventory.ErrDatesUnavailable)

	// nothing from the failed acceptance persisted
	req, ok := f.store.Request("req-1")
	require.True(t, ok)
	assert.Equal(t, domainrequest.StatusPending, req.Status)
	assert.Equal(t, 0, f.store.BookingCount())
	_, ok = f.store.Day("listing-1", date(1))
	assert.False(t, ok)
}

func TestAcceptFailsOnHostBlockedDay(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")
	f.seedDay(2, false, 120)

	_, err := f.decideHandler().Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1",
		NewStatus: "ACCEPTED",
		HostID:    "host-1",
	})
	assert.ErrorIs(t, err, domaininventory.ErrDatesUnavailable)
}

func TestRejectPendingRequest(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")

	result, err := f.decideHandler().Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1",
		NewStatus: "REJECTED",
		HostID:    "host-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", result.Status)
	assert.Equal(t, 0, f.store.BookingCount())
}

func TestRejectReversesAcceptedRequest(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")
	h := f.decideHandler()

	_, err := h.Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1", NewStatus: "ACCEPTED", HostID: "host-1",
	})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1", NewStatus: "REJECTED", HostID: "host-1",
	})
	require.NoError(t, err)

	req, ok := f.store.Request("req-1")
	require.True(t, ok)
	assert.Equal(t, domainrequest.StatusRejected, req.Status)
	assert.Equal(t, 0, f.store.BookingCount())

	// claimed days are open again
	for _, d := range []int{1, 2} {
		day, ok := f.store.Day("listing-1", date(d))
		require.True(t, ok)
		assert.True(t, day.Available)
		assert.Empty(t, day.BookingID)
	}
}

func TestRejectedRequestIsTerminal(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")
	h := f.decideHandler()

	_, err := h.Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1", NewStatus: "REJECTED", HostID: "host-1",
	})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1", NewStatus: "ACCEPTED", HostID: "host-1",
	})
	assert.ErrorIs(t, err, domainrequest.ErrInvalidTransition)
}

func TestChangeStatusRejectsPendingTarget(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")

	_, err := f.decideHandler().Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1", NewStatus: "PENDING", HostID: "host-1",
	})
	assert.ErrorIs(t, err, domainrequest.ErrInvalidTransition)
}

func TestChangeStatusByNonOwnerLooksLikeMissing(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")

	_, err := f.decideHandler().Handle(context.Background(), ChangeStatusCommand{
		RequestID: "req-1", NewStatus: "ACCEPTED", HostID: "someone-else",
	})
	assert.ErrorIs(t, err, domainrequest.ErrNotFound)
}
