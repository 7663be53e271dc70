package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/persistfsm/modules/orders"
	"github.com/dmitrymomot/persistfsm/pkg/config"
	"github.com/dmitrymomot/persistfsm/pkg/httpserver"
	"github.com/dmitrymomot/persistfsm/pkg/lock"
	"github.com/dmitrymomot/persistfsm/pkg/logger"
	"github.com/dmitrymomot/persistfsm/pkg/mongo"
	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/persist/memstore"
	"github.com/dmitrymomot/persistfsm/pkg/persist/mongostore"
	"github.com/dmitrymomot/persistfsm/pkg/persist/pgstore"
	"github.com/dmitrymomot/persistfsm/pkg/persist/redisstore"
	"github.com/dmitrymomot/persistfsm/pkg/pg"
	"github.com/dmitrymomot/persistfsm/pkg/redis"
)

// backend is everything the selected store driver contributes.
type backend struct {
	store     persist.Store[int64, orders.State]
	catalog   orders.Catalog
	probes    map[string]httpserver.Probe
	listeners []persist.Listener[int64, orders.State, orders.Event]
	locker    lock.Locker
	closers   []func()
}

func (b *backend) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

func openBackend(ctx context.Context, cfg orders.Config, log *slog.Logger) (*backend, error) {
	b := &backend{
		probes: map[string]httpserver.Probe{},
		listeners: []persist.Listener[int64, orders.State, orders.Event]{
			persist.NewLogListener[int64, orders.State, orders.Event](log),
		},
	}

	var err error
	switch cfg.Driver {
	case orders.DriverMemory, "":
		err = b.openMemory()
	case orders.DriverPostgres:
		err = b.openPostgres(ctx, cfg, log)
	case orders.DriverRedis:
		err = b.openRedis(ctx, cfg, log)
	case orders.DriverMongo:
		err = b.openMongo(ctx, cfg, log)
	default:
		err = fmt.Errorf("unknown orders store driver %q", cfg.Driver)
	}
	if err != nil {
		b.close()
		return nil, err
	}

	if b.locker == nil {
		b.locker = lock.NewMemory()
	}
	log.InfoContext(ctx, "orders store ready", logger.Driver(cfg.Driver))
	return b, nil
}

func (b *backend) openMemory() error {
	store := memstore.New[int64, orders.State]()
	b.store = store
	b.catalog = orders.MemoryCatalog(store)
	return nil
}

func (b *backend) openPostgres(ctx context.Context, cfg orders.Config, log *slog.Logger) error {
	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return err
	}
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, pool.Close)

	if err := pg.Migrate(ctx, pool, pgCfg, pgstore.Migrations, "migrations", log); err != nil {
		return err
	}

	store := pgstore.New[int64, orders.State](pool, cfg.Kind, orders.Codec)
	b.store = store
	b.catalog = orders.PostgresCatalog(store)
	b.probes["postgres"] = pg.Healthcheck(pool)
	return nil
}

func (b *backend) openRedis(ctx context.Context, cfg orders.Config, log *slog.Logger) error {
	var redisCfg redis.Config
	if err := config.Load(&redisCfg); err != nil {
		return err
	}
	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	b.closers = append(b.closers, func() {
		if err := client.Close(); err != nil {
			log.Error("failed to close redis client", logger.Error(err))
		}
	})

	store := redisstore.New[int64, orders.State](client, cfg.Kind, orders.Codec)
	b.store = store
	b.catalog = orders.RedisCatalog(store)
	b.probes["redis"] = redis.Healthcheck(client)

	if cfg.Channel != "" {
		b.listeners = append(b.listeners, redisstore.NewPublisher[int64, orders.State, orders.Event](client, cfg.Channel, orders.Codec))
	}
	if cfg.LockTTL > 0 {
		b.locker = lock.NewRedis(client, cfg.LockTTL, lock.WithPrefix("fsm:lock:"+cfg.Kind))
	}
	return nil
}

func (b *backend) openMongo(ctx context.Context, cfg orders.Config, log *slog.Logger) error {
	var mongoCfg mongo.Config
	if err := config.Load(&mongoCfg); err != nil {
		return err
	}
	db, err := mongo.NewWithDatabase(ctx, mongoCfg)
	if err != nil {
		return err
	}
	client := db.Client()
	b.closers = append(b.closers, func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error("failed to disconnect mongo client", logger.Error(err))
		}
	})

	store := mongostore.New[int64, orders.State](db.Collection(cfg.Collection), cfg.Kind, orders.Codec)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}
	b.store = store
	b.catalog = orders.MongoCatalog(store)
	b.probes["mongo"] = mongo.Healthcheck(client)
	return nil
}
