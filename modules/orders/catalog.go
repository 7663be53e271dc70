package orders

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrymomot/persistfsm/pkg/persist/memstore"
	"github.com/dmitrymomot/persistfsm/pkg/persist/mongostore"
	"github.com/dmitrymomot/persistfsm/pkg/persist/pgstore"
	"github.com/dmitrymomot/persistfsm/pkg/persist/redisstore"
)

// Order is an order id with its current state.
type Order struct {
	ID        int64   `json:"id"`
	State     State   `json:"state"`
	Permitted []Event `json:"permitted_events,omitempty"`
}

// Catalog enumerates and seeds orders. The persist.Store used by the Handler
// covers single-order reads and writes; Catalog covers the rest.
type Catalog interface {
	List(ctx context.Context) ([]Order, error)
	Put(ctx context.Context, id int64, state State) error
}

// Seed writes orders into c.
func Seed(ctx context.Context, c Catalog, orders ...Order) error {
	for _, o := range orders {
		if err := c.Put(ctx, o.ID, o.State); err != nil {
			return fmt.Errorf("seed order %d: %w", o.ID, err)
		}
	}
	return nil
}

type memoryCatalog struct {
	store *memstore.Store[int64, State]
}

// MemoryCatalog adapts an in-memory store.
func MemoryCatalog(s *memstore.Store[int64, State]) Catalog {
	return memoryCatalog{store: s}
}

func (c memoryCatalog) List(ctx context.Context) ([]Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := c.store.List()
	out := make([]Order, 0, len(entries))
	for _, e := range entries {
		out = append(out, Order{ID: e.ID, State: e.State})
	}
	return out, nil
}

func (c memoryCatalog) Put(ctx context.Context, id int64, state State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.store.Put(id, state)
	return nil
}

type postgresCatalog struct {
	store *pgstore.Store[int64, State]
}

// PostgresCatalog adapts a PostgreSQL store.
func PostgresCatalog(s *pgstore.Store[int64, State]) Catalog {
	return postgresCatalog{store: s}
}

func (c postgresCatalog) List(ctx context.Context) ([]Order, error) {
	records, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(records))
	for _, r := range records {
		id, err := parseID(r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Order{ID: id, State: r.State})
	}
	// ids are stored as text; order them numerically like the other catalogs.
	sortByID(out)
	return out, nil
}

func (c postgresCatalog) Put(ctx context.Context, id int64, state State) error {
	return c.store.Put(ctx, id, state)
}

type redisCatalog struct {
	store *redisstore.Store[int64, State]
}

// RedisCatalog adapts a Redis store. Orders are sorted by id since SCAN
// returns keys in no particular order.
func RedisCatalog(s *redisstore.Store[int64, State]) Catalog {
	return redisCatalog{store: s}
}

func (c redisCatalog) List(ctx context.Context) ([]Order, error) {
	entries, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(entries))
	for _, e := range entries {
		id, err := parseID(e.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Order{ID: id, State: e.State})
	}
	sortByID(out)
	return out, nil
}

func (c redisCatalog) Put(ctx context.Context, id int64, state State) error {
	return c.store.Put(ctx, id, state)
}

type mongoCatalog struct {
	store *mongostore.Store[int64, State]
}

// MongoCatalog adapts a MongoDB store. Entity ids are stored as strings, so
// the result is re-sorted numerically.
func MongoCatalog(s *mongostore.Store[int64, State]) Catalog {
	return mongoCatalog{store: s}
}

func (c mongoCatalog) List(ctx context.Context) ([]Order, error) {
	entries, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(entries))
	for _, e := range entries {
		id, err := parseID(e.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Order{ID: id, State: e.State})
	}
	sortByID(out)
	return out, nil
}

func (c mongoCatalog) Put(ctx context.Context, id int64, state State) error {
	return c.store.Put(ctx, id, state)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("stored order id %q: %w", raw, err)
	}
	return id, nil
}

func sortByID(orders []Order) {
	slices.SortFunc(orders, func(a, b Order) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
