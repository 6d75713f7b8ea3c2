package middleware_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/app/commands"
	"staybook/internal/app/middleware"
	"staybook/internal/app/uow"
	"staybook/internal/domain/inventory"
	"staybook/internal/infra/storage/memory"
)

type echoCommand struct {
	ID   string
	Idem string
}

func (c echoCommand) Key() string            { return "test.echo" }
func (c echoCommand) IdempotencyKey() string { return c.Idem }
func (c echoCommand) ResultPrototype() any   { return &echoResult{} }

type echoResult struct {
	ID    string `json:"id"`
	Calls int    `json:"calls"`
}

type echoHandler struct {
	calls int
	err   error
}

func (h *echoHandler) Handle(ctx context.Context, cmd echoCommand) (*echoResult, error) {
	h.calls++
	if h.err != nil {
		return nil, h.err
	}
	return &echoResult{ID: cmd.ID, Calls: h.calls}, nil
}

func newEchoBus(h *echoHandler) commands.Bus {
	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, echoCommand{}.Key(), h)
	return middleware.ChainCommands(bus, middleware.Idempotency(memory.NewIdempotencyStore(), nil))
}

func TestIdempotencyReplaysStoredResult(t *testing.T) {
	h := &echoHandler{}
	bus := newEchoBus(h)

	first, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{ID: "a", Idem: "key-1"})
	require.NoError(t, err)
	second, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{ID: "a", Idem: "key-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, h.calls)
	assert.Equal(t, first.Calls, second.Calls)
}

func TestIdempotencyReplaysStoredError(t *testing.T) {
	h := &echoHandler{err: errors.New("boom")}
	bus := newEchoBus(h)

	_, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{Idem: "key-1"})
	require.Error(t, err)

	h.err = nil
	_, err = commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{Idem: "key-1"})
	require.EqualError(t, err, "boom")
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencyReplayKeepsSentinelIdentity(t *testing.T) {
	h := &echoHandler{err: inventory.ErrDatesUnavailable}
	bus := newEchoBus(h)

	_, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{Idem: "key-1"})
	require.ErrorIs(t, err, inventory.ErrDatesUnavailable)

	// the replayed failure still matches the sentinel, not just its message
	h.err = nil
	_, err = commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{Idem: "key-1"})
	require.ErrorIs(t, err, inventory.ErrDatesUnavailable)
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencySkipsCommandsWithoutKey(t *testing.T) {
	h := &echoHandler{}
	bus := newEchoBus(h)

	_, err := commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{})
	require.NoError(t, err)
	_, err = commands.Dispatch[echoCommand, *echoResult](context.Background(), bus, echoCommand{})
	require.NoError(t, err)
	assert.Equal(t, 2, h.calls)
}

type plainCommand struct{}

func (plainCommand) Key() string { return "test.plain" }

func TestDispatchUnknownCommand(t *testing.T) {
	bus := middleware.ChainCommands(commands.NewInMemoryBus())
	_, err := bus.Dispatch(context.Background(), plainCommand{})
	assert.ErrorIs(t, err, commands.ErrHandlerNotFound)
}

type txAwareCommand struct {
	tx bool
}

func (txAwareCommand) Key() string { return "test.txaware" }
func (c txAwareCommand) Transactional() bool { return c.tx }

func TestTransactionMiddlewareBindsUnit(t *testing.T) {
	store := memory.NewStore()
	bus := commands.NewInMemoryBus()

	var sawUnit bool
	bus.RegisterRaw("test.txaware", func(ctx context.Context, cmd commands.Command) (any, error) {
		_, sawUnit = uow.FromContext(ctx)
		return nil, nil
	})

	chained := middleware.ChainCommands(bus, middleware.Transaction(memory.Factory{Store: store}))

	_, err := chained.Dispatch(context.Background(), txAwareCommand{tx: true})
	require.NoError(t, err)
	assert.True(t, sawUnit)

	_, err = chained.Dispatch(context.Background(), txAwareCommand{tx: false})
	require.NoError(t, err)
	assert.False(t, sawUnit)
}
