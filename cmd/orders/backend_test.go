package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/persistfsm/modules/orders"
	"github.com/dmitrymomot/persistfsm/pkg/lock"
)

func TestOpenBackend(t *testing.T) {
	t.Parallel()
	log := slog.New(slog.DiscardHandler)

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		b, err := openBackend(context.Background(), orders.Config{Driver: orders.DriverMemory, Kind: "order"}, log)
		require.NoError(t, err)
		defer b.close()

		assert.NotNil(t, b.store)
		assert.NotNil(t, b.catalog)
		assert.IsType(t, &lock.Memory{}, b.locker)
		assert.Len(t, b.listeners, 1)
		assert.Empty(t, b.probes)

		require.NoError(t, orders.Seed(context.Background(), b.catalog, orders.SeedOrders()...))
		state, err := b.store.Load(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, orders.Sent, state)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Parallel()
		_, err := openBackend(context.Background(), orders.Config{Driver: "sqlite"}, log)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlite")
	})
}
