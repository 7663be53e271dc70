package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/persistfsm/modules/orders"
	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/persist/memstore"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

func newHandler(t *testing.T) (*orders.Handler, *memstore.Store[int64, orders.State]) {
	t.Helper()
	store := memstore.New[int64, orders.State]()
	require.NoError(t, orders.Seed(context.Background(), orders.MemoryCatalog(store), orders.SeedOrders()...))
	return persist.NewHandler[int64](orders.MustDefinition(), store), store
}

func TestDefinition(t *testing.T) {
	t.Parallel()

	def, err := orders.NewDefinition()
	require.NoError(t, err)

	assert.Equal(t, orders.Placed, def.InitialState())
	assert.ElementsMatch(t,
		[]orders.State{orders.Placed, orders.Processing, orders.Sent, orders.Delivered},
		def.States(),
	)
	assert.ElementsMatch(t, []orders.Event{orders.Process, orders.Send, orders.Deliver}, def.Events())
	assert.Len(t, def.Transitions(), 3)
	assert.True(t, def.IsTerminal(orders.Delivered))
	assert.False(t, def.IsTerminal(orders.Sent))
}

func TestDefinitionAcceptsNamedGuards(t *testing.T) {
	t.Parallel()

	// The embedded document references no guards, so registering some is harmless.
	def, err := orders.NewDefinition(statemachine.WithNamedGuards(map[string]statemachine.Guard[orders.State, orders.Event]{
		"never": func(context.Context, orders.State, orders.Event, any) bool { return false },
	}))
	require.NoError(t, err)
	assert.NotNil(t, def)
}

func TestOrderLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("placed order walks to delivered", func(t *testing.T) {
		t.Parallel()
		h, store := newHandler(t)
		ctx := context.Background()

		state, err := h.Apply(ctx, 1, orders.Process, nil)
		require.NoError(t, err)
		assert.Equal(t, orders.Processing, state)

		state, err = h.Apply(ctx, 1, orders.Send, nil)
		require.NoError(t, err)
		assert.Equal(t, orders.Sent, state)

		state, err = h.Apply(ctx, 1, orders.Deliver, nil)
		require.NoError(t, err)
		assert.Equal(t, orders.Delivered, state)

		stored, err := store.Load(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, orders.Delivered, stored)
	})

	t.Run("after persist sees every visited state once", func(t *testing.T) {
		t.Parallel()
		h, _ := newHandler(t)
		ctx := context.Background()

		var visited []orders.State
		h.RegisterListener(persist.ListenerFuncs[int64, orders.State, orders.Event]{
			OnAfterPersist: func(_ context.Context, c persist.Change[int64, orders.State, orders.Event]) error {
				visited = append(visited, c.To)
				return nil
			},
		})

		_, err := h.Apply(ctx, 1, orders.Deliver, nil)
		require.Error(t, err)
		for _, ev := range []orders.Event{orders.Process, orders.Send, orders.Deliver} {
			_, err := h.Apply(ctx, 1, ev, nil)
			require.NoError(t, err)
		}

		assert.Equal(t, []orders.State{orders.Processing, orders.Sent, orders.Delivered}, visited)
	})

	t.Run("skipping a step is rejected", func(t *testing.T) {
		t.Parallel()
		h, store := newHandler(t)
		ctx := context.Background()

		_, err := h.Apply(ctx, 1, orders.Deliver, nil)
		require.Error(t, err)
		assert.True(t, persist.IsRejected(err))

		stored, err := store.Load(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, orders.Placed, stored)
	})

	t.Run("delivered is terminal", func(t *testing.T) {
		t.Parallel()
		h, _ := newHandler(t)

		for _, ev := range []orders.Event{orders.Process, orders.Send, orders.Deliver} {
			_, err := h.Apply(context.Background(), 4, ev, nil)
			assert.True(t, persist.IsRejected(err), "event %s", ev)
		}
	})
}

func TestCatalog(t *testing.T) {
	t.Parallel()

	t.Run("memory catalog lists seeded orders in insertion order", func(t *testing.T) {
		t.Parallel()
		store := memstore.New[int64, orders.State]()
		c := orders.MemoryCatalog(store)
		require.NoError(t, orders.Seed(context.Background(), c, orders.SeedOrders()...))

		got, err := c.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, orders.SeedOrders(), got)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := orders.MemoryCatalog(memstore.New[int64, orders.State]())
		err := orders.Seed(ctx, c, orders.Order{ID: 1, State: orders.Placed})
		assert.ErrorIs(t, err, context.Canceled)

		_, err = c.List(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
