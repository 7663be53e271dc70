package persist

import (
	"log/slog"

	"github.com/dmitrymomot/persistfsm/pkg/lock"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

// Option configures a Handler.
type Option[ID, S, E comparable] func(*Handler[ID, S, E])

// WithLogger sets the logger used for lock release failures and, unless
// WithErrorReporter is given, for listener failures.
func WithLogger[ID, S, E comparable](log *slog.Logger) Option[ID, S, E] {
	return func(h *Handler[ID, S, E]) {
		if log != nil {
			h.log = log
		}
	}
}

// WithListeners registers listeners in order, as RegisterListener would.
func WithListeners[ID, S, E comparable](listeners ...Listener[ID, S, E]) Option[ID, S, E] {
	return func(h *Handler[ID, S, E]) {
		for _, l := range listeners {
			if l != nil {
				h.listeners.Register(l)
			}
		}
	}
}

// WithLocker serialises Apply per entity key. Use it when the store cannot
// compare-and-swap or when listeners must never observe a change that then
// loses a race.
func WithLocker[ID, S, E comparable](locker lock.Locker) Option[ID, S, E] {
	return func(h *Handler[ID, S, E]) {
		h.locker = locker
	}
}

// WithKeyFunc sets how entity ids become lock keys. Default is fmt.Sprint.
func WithKeyFunc[ID, S, E comparable](fn func(ID) string) Option[ID, S, E] {
	return func(h *Handler[ID, S, E]) {
		if fn != nil {
			h.key = fn
		}
	}
}

// WithErrorReporter receives listener failures that do not change the result.
func WithErrorReporter[ID, S, E comparable](fn statemachine.ErrorReporter) Option[ID, S, E] {
	return func(h *Handler[ID, S, E]) {
		h.report = fn
	}
}

// WithoutConditionalSave makes the handler call Save even when the store
// implements ConditionalStore.
func WithoutConditionalSave[ID, S, E comparable]() Option[ID, S, E] {
	return func(h *Handler[ID, S, E]) {
		h.conditional = nil
	}
}
