// Package httpserver runs a net/http server bound to a context: Run blocks
// until the context is cancelled and then shuts down gracefully.
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// LivenessHandler and ReadinessHandler back the /health endpoints; readiness
// runs the store probes (pg.Healthcheck, redis.Healthcheck, mongo.Healthcheck).
package httpserver
