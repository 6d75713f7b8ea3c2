package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appoutbox "staybook/internal/app/outbox"
	"staybook/internal/app/uow"
)

func TestOutboxRecordsSurfaceOnCommit(t *testing.T) {
	store := NewStore()
	box := NewOutbox()
	ctx := context.Background()

	unit, err := Factory{Store: store}.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	bound := uow.Bind(ctx, unit)

	require.NoError(t, box.Add(bound, appoutbox.EventRecord{ID: "ev-1", Name: "request.created"}))
	// staged with the unit, not yet visible
	assert.Empty(t, box.Pending())

	require.NoError(t, unit.Commit(bound))
	records := box.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "request.created", records[0].Name)
}

func TestOutboxDropsRecordsOnRollback(t *testing.T) {
	store := NewStore()
	box := NewOutbox()
	ctx := context.Background()

	unit, err := Factory{Store: store}.Begin(ctx, uow.TxOptions{})
	require.NoError(t, err)
	bound := uow.Bind(ctx, unit)

	require.NoError(t, box.Add(bound, appoutbox.EventRecord{ID: "ev-1", Name: "request.created"}))
	require.NoError(t, unit.Rollback(bound))

	assert.Empty(t, box.Pending())
}

func TestOutboxAddWithoutUnitBuffersDirectly(t *testing.T) {
	box := NewOutbox()
	require.NoError(t, box.Add(context.Background(), appoutbox.EventRecord{ID: "ev-1", Name: "request.created"}))
	assert.Len(t, box.Pending(), 1)
}
