package lock_test

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/persistfsm/pkg/lock"
)

func exerciseMutualExclusion(t *testing.T, locker lock.Locker) {
	t.Helper()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		maxSeen atomic.Int32
		counter atomic.Int32
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, "entity:1")
			if !assert.NoError(t, err) {
				return
			}
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			counter.Add(1)
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			assert.NoError(t, unlock(ctx))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(20), counter.Load())
	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestMemory(t *testing.T) {
	t.Parallel()

	t.Run("serialises the same key", func(t *testing.T) {
		t.Parallel()
		exerciseMutualExclusion(t, lock.NewMemory())
	})

	t.Run("different keys do not block", func(t *testing.T) {
		t.Parallel()
		m := lock.NewMemory()
		ctx := context.Background()

		unlockA, err := m.Lock(ctx, "a")
		require.NoError(t, err)
		unlockB, err := m.Lock(ctx, "b")
		require.NoError(t, err)

		require.NoError(t, unlockA(ctx))
		require.NoError(t, unlockB(ctx))
	})

	t.Run("context cancellation while waiting", func(t *testing.T) {
		t.Parallel()
		m := lock.NewMemory()
		unlock, err := m.Lock(context.Background(), "k")
		require.NoError(t, err)
		defer func() { _ = unlock(context.Background()) }()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err = m.Lock(ctx, "k")
		require.Error(t, err)
		assert.ErrorIs(t, err, lock.ErrNotAcquired)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("double unlock", func(t *testing.T) {
		t.Parallel()
		m := lock.NewMemory()
		ctx := context.Background()
		unlock, err := m.Lock(ctx, "k")
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))
		assert.ErrorIs(t, unlock(ctx), lock.ErrNotHeld)
	})
}

func redisClient(t *testing.T) *redis.Client {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedis(t *testing.T) {
	client := redisClient(t)
	prefix := "locktest:" + time.Now().Format("150405.000000")

	t.Run("serialises the same key", func(t *testing.T) {
		locker := lock.NewRedis(client, 5*time.Second,
			lock.WithPrefix(prefix),
			lock.WithRetryInterval(time.Millisecond),
		)
		exerciseMutualExclusion(t, locker)
	})

	t.Run("expired lock is not released by the old holder", func(t *testing.T) {
		locker := lock.NewRedis(client, 50*time.Millisecond, lock.WithPrefix(prefix))
		ctx := context.Background()

		unlock, err := locker.Lock(ctx, "ttl")
		require.NoError(t, err)
		time.Sleep(100 * time.Millisecond)

		unlock2, err := locker.Lock(ctx, "ttl")
		require.NoError(t, err)

		assert.ErrorIs(t, unlock(ctx), lock.ErrNotHeld)
		assert.NoError(t, unlock2(ctx))
	})

	t.Run("times out on a busy key", func(t *testing.T) {
		locker := lock.NewRedis(client, 5*time.Second, lock.WithPrefix(prefix))
		unlock, err := locker.Lock(context.Background(), "busy")
		require.NoError(t, err)
		defer func() { _ = unlock(context.Background()) }()

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(ctx, "busy")
		assert.ErrorIs(t, err, lock.ErrNotAcquired)
	})
}
