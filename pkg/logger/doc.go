// Package logger builds *slog.Logger instances for services driving persisted
// state machines: environment-aware defaults, context extractors (request id)
// and attribute helpers that keep key names consistent across packages.
//
// # Usage
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//
//	log := logger.NewFromConfig(cfg,
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "transition persisted",
//	    logger.EntityID(42),
//	    logger.FromState("PLACED"),
//	    logger.ToState("PROCESSING"),
//	    logger.Event("process"),
//	)
//
// Development logs text at debug level; staging and production log JSON at
// info level. LOG_LEVEL and LOG_FORMAT override both.
//
// Error and Errors return an empty attribute for nil errors, so
//
//	log.Info("applied", logger.Error(err))
//
// needs no nil check.
package logger
