package broadcast_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/persistfsm/pkg/broadcast"
)

func TestMemorySubscribe(t *testing.T) {
	t.Parallel()

	t.Run("subscriber receives broadcasts", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[string](4)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, b.Broadcast(context.Background(), "hello"))

		assert.Equal(t, "hello", <-sub.C())
		assert.Equal(t, 1, b.Len())
	})

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[string](4)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.C()
		assert.False(t, ok)
		assert.Equal(t, 0, b.Len())
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[string](4)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		select {
		case _, ok := <-sub.C():
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("subscriber was not closed after context cancellation")
		}
		assert.Eventually(t, func() bool { return b.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[int](1)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())
		assert.Equal(t, 0, b.Len())
	})
}

func TestMemoryBroadcast(t *testing.T) {
	t.Parallel()

	t.Run("fans out to every subscriber", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[int](4)
		defer b.Close()

		subs := []broadcast.Subscriber[int]{
			b.Subscribe(context.Background()),
			b.Subscribe(context.Background()),
			b.Subscribe(context.Background()),
		}
		require.NoError(t, b.Broadcast(context.Background(), 7))

		for _, sub := range subs {
			assert.Equal(t, 7, <-sub.C())
		}
	})

	t.Run("slow subscriber is dropped", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[int](1)
		defer b.Close()

		slow := b.Subscribe(context.Background())
		require.NoError(t, b.Broadcast(context.Background(), 1))
		require.NoError(t, b.Broadcast(context.Background(), 2))

		assert.Equal(t, 1, <-slow.C())
		_, ok := <-slow.C()
		assert.False(t, ok)
		assert.Equal(t, uint64(1), b.Dropped())
		assert.Equal(t, 0, b.Len())
	})

	t.Run("closed broadcaster", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[int](1)
		sub := b.Subscribe(context.Background())
		require.NoError(t, b.Close())
		require.NoError(t, b.Close())

		assert.ErrorIs(t, b.Broadcast(context.Background(), 1), broadcast.ErrClosed)
		_, ok := <-sub.C()
		assert.False(t, ok)
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[int](1)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, b.Broadcast(ctx, 1), context.Canceled)
	})

	t.Run("concurrent broadcast and subscribe", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[int](128)

		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_ = b.Broadcast(context.Background(), i)
			}()
			go func() {
				defer wg.Done()
				sub := b.Subscribe(context.Background())
				_ = sub.Close()
			}()
		}
		wg.Wait()
		require.NoError(t, b.Close())
		assert.Equal(t, 0, b.Len())
	})
}
