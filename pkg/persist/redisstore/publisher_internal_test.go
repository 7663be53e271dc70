package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay(t *testing.T) {
	t.Parallel()

	t.Run("malformed payloads are reported and skipped", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		in := make(chan *redis.Message, 2)
		in <- &redis.Message{Payload: "{not json"}
		in <- &redis.Message{Payload: `{"id":"7","from":"PLACED","to":"PROCESSING","event":"process"}`}
		close(in)

		var payloads []string
		var reported []error
		out := make(chan Message, 2)
		relay(ctx, in, out, func(_ context.Context, payload string, err error) {
			payloads = append(payloads, payload)
			reported = append(reported, err)
		})
		close(out)

		require.Len(t, reported, 1)
		assert.True(t, errors.Is(reported[0], ErrMalformedMessage))
		assert.Equal(t, []string{"{not json"}, payloads)

		var got []Message
		for m := range out {
			got = append(got, m)
		}
		require.Len(t, got, 1)
		assert.Equal(t, "7", got[0].ID)
		assert.Equal(t, "PROCESSING", got[0].To)
	})

	t.Run("stops when the context ends", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			relay(ctx, make(chan *redis.Message), make(chan Message), func(context.Context, string, error) {})
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("relay did not return")
		}
	})
}
