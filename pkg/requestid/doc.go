// Package requestid tags each HTTP request with a correlation identifier and
// exposes it to handlers and to the logger.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
//
// Client-supplied identifiers are kept when they are at most 128 characters of
// letters, digits, '-' or '_'; anything else is replaced with a new UUID.
package requestid
