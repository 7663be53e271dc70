package orders_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/persistfsm/modules/orders"
	"github.com/dmitrymomot/persistfsm/pkg/broadcast"
	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/persist/memstore"
)

func TestFeed(t *testing.T) {
	t.Parallel()

	t.Run("broadcasts committed changes only", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[orders.Change](4)
		defer b.Close()
		feed := orders.NewFeed(b)

		h, _ := newHandler(t)
		h.RegisterListener(feed)

		sub := feed.Subscribe(context.Background())
		defer sub.Close()

		_, err := h.Apply(context.Background(), 2, orders.Deliver, nil)
		require.Error(t, err)
		_, err = h.Apply(context.Background(), 2, orders.Send, nil)
		require.NoError(t, err)

		select {
		case c := <-sub.C():
			assert.Equal(t, int64(2), c.ID)
			assert.Equal(t, orders.Processing, c.From)
			assert.Equal(t, orders.Sent, c.To)
			assert.Equal(t, orders.Send, c.Event)
			assert.False(t, c.At.IsZero())
		case <-time.After(time.Second):
			t.Fatal("no change received")
		}

		select {
		case c := <-sub.C():
			t.Fatalf("unexpected change %+v", c)
		default:
		}
	})

	t.Run("nil broadcaster panics", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { orders.NewFeed(nil) })
	})
}

func TestRouterChanges(t *testing.T) {
	t.Parallel()

	t.Run("streams changes as server-sent events", func(t *testing.T) {
		t.Parallel()
		b := broadcast.NewMemory[orders.Change](4)
		defer b.Close()
		feed := orders.NewFeed(b)

		store := memstore.New[int64, orders.State]()
		catalog := orders.MemoryCatalog(store)
		require.NoError(t, orders.Seed(context.Background(), catalog, orders.SeedOrders()...))
		h := persist.NewHandler[int64](orders.MustDefinition(), store,
			persist.WithListeners[int64, orders.State, orders.Event](feed),
		)

		r := chi.NewRouter()
		r.Mount("/orders", orders.Router(orders.RouterOptions{Handler: h, Catalog: catalog, Feed: feed}))
		srv := httptest.NewServer(r)
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/orders/changes", nil)
		require.NoError(t, err)
		stream, err := srv.Client().Do(req)
		require.NoError(t, err)
		defer stream.Body.Close()

		require.Equal(t, http.StatusOK, stream.StatusCode)
		assert.Contains(t, stream.Header.Get("Content-Type"), "text/event-stream")

		resp, err := srv.Client().Post(srv.URL+"/orders/1/events/process", "application/json", nil)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		scanner := bufio.NewScanner(stream.Body)
		var event, id, data string
		for scanner.Scan() {
			line := scanner.Text()
			if v, ok := strings.CutPrefix(line, "event: "); ok {
				event = v
			}
			if v, ok := strings.CutPrefix(line, "id: "); ok {
				id = v
			}
			if v, ok := strings.CutPrefix(line, "data: "); ok {
				data = v
				break
			}
		}
		require.NotEmpty(t, data)
		assert.Equal(t, "change", event)
		assert.Equal(t, "1", id)

		var c orders.Change
		require.NoError(t, json.Unmarshal([]byte(data), &c))
		assert.Equal(t, int64(1), c.ID)
		assert.Equal(t, orders.Placed, c.From)
		assert.Equal(t, orders.Processing, c.To)
		assert.Equal(t, orders.Process, c.Event)
	})

	t.Run("without feed", func(t *testing.T) {
		t.Parallel()
		srv, _ := newServer(t)

		status, env := do(t, srv, http.MethodGet, "/orders/changes", "")
		assert.Equal(t, http.StatusNotFound, status)
		require.NotNil(t, env.Error)
		assert.Equal(t, "not_found", env.Error.Code)
	})
}
