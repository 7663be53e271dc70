package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/persist/memstore"
)

type entry = memstore.Entry[int, string]

func TestStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("load and save", func(t *testing.T) {
		t.Parallel()
		s := memstore.New(entry{ID: 1, State: "PLACED"})

		state, err := s.Load(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "PLACED", state)

		require.NoError(t, s.Save(ctx, 1, "PROCESSING"))
		require.NoError(t, s.Save(ctx, 2, "SENT"))
		assert.Equal(t, []entry{{ID: 1, State: "PROCESSING"}, {ID: 2, State: "SENT"}}, s.List())
	})

	t.Run("missing entity", func(t *testing.T) {
		t.Parallel()
		s := memstore.New[int, string]()
		_, err := s.Load(ctx, 9)
		assert.ErrorIs(t, err, persist.ErrNotFound)
		assert.ErrorIs(t, s.SaveIf(ctx, 9, "A", "B"), persist.ErrNotFound)
	})

	t.Run("compare and swap", func(t *testing.T) {
		t.Parallel()
		s := memstore.New(entry{ID: 1, State: "PLACED"})

		require.NoError(t, s.SaveIf(ctx, 1, "PLACED", "PROCESSING"))
		err := s.SaveIf(ctx, 1, "PLACED", "PROCESSING")
		assert.ErrorIs(t, err, persist.ErrStateConflict)

		state, _ := s.Load(ctx, 1)
		assert.Equal(t, "PROCESSING", state)
	})

	t.Run("delete keeps order", func(t *testing.T) {
		t.Parallel()
		s := memstore.New(entry{ID: 1, State: "A"}, entry{ID: 2, State: "B"}, entry{ID: 3, State: "C"})
		assert.True(t, s.Delete(2))
		assert.False(t, s.Delete(2))

		s.Put(3, "D")
		assert.Equal(t, []entry{{ID: 1, State: "A"}, {ID: 3, State: "D"}}, s.List())
		assert.Equal(t, 2, s.Len())
	})

	t.Run("string listing", func(t *testing.T) {
		t.Parallel()
		s := memstore.New(entry{ID: 1, State: "PLACED"}, entry{ID: 2, State: "PROCESSING"})
		assert.Equal(t, "Entry [id=1, state=PLACED]\nEntry [id=2, state=PROCESSING]", s.String())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		s := memstore.New(entry{ID: 1, State: "PLACED"})
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		assert.ErrorIs(t, s.Save(cctx, 1, "X"), context.Canceled)
	})

	var _ persist.ConditionalStore[int, string] = memstore.New[int, string]()
}
