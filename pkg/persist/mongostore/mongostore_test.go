package mongostore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/persist/mongostore"
)

type state string

func collection(t *testing.T) *mongo.Collection {
	t.Helper()
	url := os.Getenv("MONGODB_URL")
	if url == "" {
		t.Skip("MONGODB_URL not set")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(url))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	coll := client.Database("persistfsm_test").Collection(fmt.Sprintf("states_%d", time.Now().UnixNano()))
	t.Cleanup(func() { _ = coll.Drop(context.Background()) })
	return coll
}

func TestStore(t *testing.T) {
	coll := collection(t)
	ctx := context.Background()
	store := mongostore.New[int, state](coll, "order", persist.StringCodec[state]{})
	require.NoError(t, store.EnsureIndexes(ctx))

	_, err := store.Load(ctx, 1)
	assert.ErrorIs(t, err, persist.ErrNotFound)

	require.NoError(t, store.Put(ctx, 1, "PLACED"))
	require.NoError(t, store.Put(ctx, 2, "SENT"))

	require.NoError(t, store.SaveIf(ctx, 1, "PLACED", "PROCESSING"))
	assert.ErrorIs(t, store.SaveIf(ctx, 1, "PLACED", "PROCESSING"), persist.ErrStateConflict)
	assert.ErrorIs(t, store.SaveIf(ctx, 3, "PLACED", "PROCESSING"), persist.ErrNotFound)

	got, err := store.Load(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, state("PROCESSING"), got)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "1", entries[0].ID)
	assert.Equal(t, state("SENT"), entries[1].State)

	deleted, err := store.Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestNewPanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { mongostore.New[int, state](nil, "order", persist.StringCodec[state]{}) })
}
