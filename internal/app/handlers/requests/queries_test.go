package requests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainrequest "staybook/internal/domain/request"
	"staybook/internal/infra/storage/memory"
)

func TestGetRequestVisibleToGuestAndHost(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")
	h := &GetRequestHandler{UoWFactory: memory.Factory{Store: f.store}}

	for _, actor := range []string{"guest-1", "host-1"} {
		view, err := h.Handle(context.Background(), GetRequestQuery{
			RequestID:        "req-1",
			RequestingUserID: actor,
		})
		require.NoError(t, err, actor)
		assert.Equal(t, "req-1", view.ID)
	}

	_, err := h.Handle(context.Background(), GetRequestQuery{
		RequestID:        "req-1",
		RequestingUserID: "stranger",
	})
	assert.ErrorIs(t, err, domainrequest.ErrNotFound)
}

func TestListRequestsHostSeesListing(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")
	f.createPending(t, "req-2")
	h := &ListRequestsHandler{UoWFactory: memory.Factory{Store: f.store}}

	out, err := h.Handle(context.Background(), ListRequestsQuery{
		ListingID:        "listing-1",
		RequestingUserID: "host-1",
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
}

func TestListRequestsStrangerSeesOnlyOwn(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")
	h := &ListRequestsHandler{UoWFactory: memory.Factory{Store: f.store}}

	out, err := h.Handle(context.Background(), ListRequestsQuery{
		ListingID:        "listing-1",
		RequestingUserID: "stranger",
	})
	require.NoError(t, err)
	assert.Empty(t, out.Items)

	own, err := h.Handle(context.Background(), ListRequestsQuery{
		ListingID:        "listing-1",
		RequestingUserID: "guest-1",
	})
	require.NoError(t, err)
	assert.Len(t, own.Items, 1)
}

func TestListRequestsStatusFilterAndPaging(t *testing.T) {
	f := newFixture()
	f.createPending(t, "req-1")
	f.createPending(t, "req-2")
	f.createPending(t, "req-3")
	h := &ListRequestsHandler{UoWFactory: memory.Factory{Store: f.store}}

	out, err := h.Handle(context.Background(), ListRequestsQuery{
		ListingID:        "listing-1",
		Status:           "PENDING",
		Take:             2,
		RequestingUserID: "host-1",
	})
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)

	none, err := h.Handle(context.Background(), ListRequestsQuery{
		ListingID:        "listing-1",
		Status:           "ACCEPTED",
		RequestingUserID: "host-1",
	})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}
