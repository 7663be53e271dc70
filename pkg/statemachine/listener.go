package statemachine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/dmitrymomot/persistfsm/pkg/logger"
)

// Listener observes a machine while it fires. Listeners are called
// synchronously in registration order and must not change state themselves.
// A returned error is reported but never alters the outcome of Fire.
type Listener[S, E comparable] interface {
	StateExited(ctx context.Context, state S) error
	TransitionFired(ctx context.Context, t Transition[S, E]) error
	StateEntered(ctx context.Context, state S) error
}

// ListenerAdapter implements Listener with no-ops, for embedding.
type ListenerAdapter[S, E comparable] struct{}

func (ListenerAdapter[S, E]) StateExited(context.Context, S) error                   { return nil }
func (ListenerAdapter[S, E]) TransitionFired(context.Context, Transition[S, E]) error { return nil }
func (ListenerAdapter[S, E]) StateEntered(context.Context, S) error                  { return nil }

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs[S, E comparable] struct {
	OnStateExited     func(ctx context.Context, state S) error
	OnTransitionFired func(ctx context.Context, t Transition[S, E]) error
	OnStateEntered    func(ctx context.Context, state S) error
}

func (f ListenerFuncs[S, E]) StateExited(ctx context.Context, state S) error {
	if f.OnStateExited == nil {
		return nil
	}
	return f.OnStateExited(ctx, state)
}

func (f ListenerFuncs[S, E]) TransitionFired(ctx context.Context, t Transition[S, E]) error {
	if f.OnTransitionFired == nil {
		return nil
	}
	return f.OnTransitionFired(ctx, t)
}

func (f ListenerFuncs[S, E]) StateEntered(ctx context.Context, state S) error {
	if f.OnStateEntered == nil {
		return nil
	}
	return f.OnStateEntered(ctx, state)
}

// Stage names a notification point.
type Stage uint8

const (
	StageStateExited Stage = iota + 1
	StageTransitionFired
	StageStateEntered
	StageBeforePersist
	StageAfterPersist
)

func (s Stage) String() string {
	switch s {
	case StageStateExited:
		return "state_exited"
	case StageTransitionFired:
		return "transition_fired"
	case StageStateEntered:
		return "state_entered"
	case StageBeforePersist:
		return "before_persist"
	case StageAfterPersist:
		return "after_persist"
	default:
		return "unknown"
	}
}

// ErrorReporter receives listener failures that must be surfaced without
// changing the outcome of the operation.
type ErrorReporter func(ctx context.Context, stage Stage, err error)

// LogReporter returns an ErrorReporter writing to log, or to slog.Default when log is nil.
func LogReporter(log *slog.Logger) ErrorReporter {
	return func(ctx context.Context, stage Stage, err error) {
		l := log
		if l == nil {
			l = slog.Default()
		}
		l.ErrorContext(ctx, "state machine listener failed",
			logger.Stage(stage.String()),
			logger.Error(err),
		)
	}
}

// Invoke calls fn and converts a panic into an error wrapping ErrListenerPanic.
func Invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Join(ErrListenerPanic, fmt.Errorf("%v", r))
		}
	}()
	return fn()
}

// Handle identifies a registration in a Registry.
type Handle uint64

type registration[L any] struct {
	handle   Handle
	listener L
}

// Registry is an ordered set of listeners. The zero value is ready to use
// and all methods are safe for concurrent use.
type Registry[L any] struct {
	mu      sync.RWMutex
	next    Handle
	entries []registration[L]
}

// NewRegistry returns a registry pre-populated with listeners.
func NewRegistry[L any](listeners ...L) *Registry[L] {
	r := &Registry[L]{}
	for _, l := range listeners {
		r.Register(l)
	}
	return r
}

// Register appends l and returns the handle used to unregister it.
func (r *Registry[L]) Register(l L) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.entries = append(r.entries, registration[L]{handle: r.next, listener: l})
	return r.next
}

// Unregister removes the listener registered under h.
// It reports whether the handle was known.
func (r *Registry[L]) Unregister(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.handle == h {
			r.entries = slices.Delete(r.entries, i, i+1)
			return true
		}
	}
	return false
}

// Snapshot returns the registered listeners in registration order.
// Later registrations do not affect the returned slice.
func (r *Registry[L]) Snapshot() []L {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]L, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.listener
	}
	return out
}

// Len returns the number of registered listeners.
func (r *Registry[L]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
