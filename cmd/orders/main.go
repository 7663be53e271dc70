package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/persistfsm/modules/orders"
	"github.com/dmitrymomot/persistfsm/pkg/broadcast"
	"github.com/dmitrymomot/persistfsm/pkg/config"
	"github.com/dmitrymomot/persistfsm/pkg/httpserver"
	"github.com/dmitrymomot/persistfsm/pkg/logger"
	"github.com/dmitrymomot/persistfsm/pkg/persist"
	"github.com/dmitrymomot/persistfsm/pkg/requestid"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

type appConfig struct {
	Logger logger.Config
	HTTP   httpserver.Config
	Orders orders.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.NewFromConfig(cfg.Logger, logger.WithContextExtractors(requestid.LoggerExtractor()))
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "orders service stopped", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	def, err := orders.NewDefinition()
	if err != nil {
		return err
	}

	backend, err := openBackend(ctx, cfg.Orders, log)
	if err != nil {
		return err
	}
	defer backend.close()

	if cfg.Orders.Seed {
		if err := orders.Seed(ctx, backend.catalog, orders.SeedOrders()...); err != nil {
			return err
		}
		log.InfoContext(ctx, "seeded demo orders", logger.Driver(cfg.Orders.Driver))
	}

	changes := broadcast.NewMemory[orders.Change](64)
	feed := orders.NewFeed(changes)
	go func() {
		<-ctx.Done()
		_ = changes.Close()
	}()

	opts := []persist.Option[int64, orders.State, orders.Event]{
		persist.WithLogger[int64, orders.State, orders.Event](log),
		persist.WithErrorReporter[int64, orders.State, orders.Event](statemachine.LogReporter(log)),
		persist.WithListeners[int64, orders.State, orders.Event](backend.listeners...),
		persist.WithListeners[int64, orders.State, orders.Event](feed),
	}
	if backend.locker != nil {
		opts = append(opts, persist.WithLocker[int64, orders.State, orders.Event](backend.locker))
	}
	h := persist.NewHandler[int64](def, backend.store, opts...)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log, backend.probes))
	r.Mount("/orders", orders.Router(orders.RouterOptions{
		Handler:    h,
		Catalog:    backend.catalog,
		Feed:       feed,
		Logger:     log,
		BatchLimit: cfg.Orders.BatchLimit,
	}))

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithOnStart(func(addr string) {
			log.InfoContext(ctx, "orders service listening",
				slog.String("addr", addr),
				logger.Driver(cfg.Orders.Driver),
			)
		}),
	)
	return srv.Run(ctx, r)
}
