package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/persistfsm/pkg/logger"
)

// HandlerFunc handles a request and returns the Response to render.
//
//	func getOrder(r *http.Request) handler.Response {
//		state, err := h.State(r.Context(), id)
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(state)
//	}
type HandlerFunc func(r *http.Request) Response

// Response renders itself to an http.ResponseWriter.
// Implementations should set headers, status code, and write body.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// ErrorHandler handles errors from rendering.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// Decorator wraps a HandlerFunc to add cross-cutting functionality.
// The first decorator in the list is the outermost wrapper.
type Decorator func(HandlerFunc) HandlerFunc

// WrapOption configures the Wrap function.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	errorHandler ErrorHandler
	decorators   []Decorator
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) WrapOption {
	return func(c *wrapConfig) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// WithDecorators adds decorators to wrap the handler.
func WithDecorators(decorators ...Decorator) WrapOption {
	return func(c *wrapConfig) {
		for _, d := range decorators {
			if d != nil {
				c.decorators = append(c.decorators, d)
			}
		}
	}
}

// LoggingErrorHandler returns an ErrorHandler that logs the failure before
// falling back to the default plain-text response.
func LoggingErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		return defaultErrorHandler
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		log.ErrorContext(r.Context(), "failed to render response",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Error(err),
		)
		defaultErrorHandler(w, r, err)
	}
}

// defaultErrorHandler uses the status code of an HTTPError,
// otherwise 500 Internal Server Error.
func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		http.Error(w, httpErr.Key, httpErr.Code)
		return
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Wrap converts a HandlerFunc to http.HandlerFunc.
//
//	r.Get("/orders/{id}", handler.Wrap(getOrder,
//		handler.WithErrorHandler(handler.LoggingErrorHandler(log)),
//	))
func Wrap(h HandlerFunc, opts ...WrapOption) http.HandlerFunc {
	cfg := &wrapConfig{
		errorHandler: defaultErrorHandler,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	// Apply decorators in reverse order so first decorator is outermost
	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		response := final(r)
		if response == nil {
			cfg.errorHandler(w, r, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(w, r, err)
		}
	}
}
