package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/persistfsm/pkg/lock"
	"github.com/dmitrymomot/persistfsm/pkg/logger"
	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

// Handler applies events to entities whose state lives in a Store. It keeps
// no per-entity state: every Apply loads, evaluates on a throwaway Machine
// and saves. A Handler is safe for concurrent use.
type Handler[ID, S, E comparable] struct {
	engine      *statemachine.Engine[S, E]
	store       Store[ID, S]
	conditional ConditionalStore[ID, S]
	listeners   *statemachine.Registry[Listener[ID, S, E]]
	locker      lock.Locker
	key         func(ID) string
	log         *slog.Logger
	report      statemachine.ErrorReporter
}

// NewHandler wires a definition to a store. It panics on nil arguments.
func NewHandler[ID, S, E comparable](def *statemachine.Definition[S, E], store Store[ID, S], opts ...Option[ID, S, E]) *Handler[ID, S, E] {
	if def == nil {
		panic("persist: definition is required")
	}
	if store == nil {
		panic("persist: store is required")
	}

	h := &Handler[ID, S, E]{
		engine:    statemachine.NewEngine(def),
		store:     store,
		listeners: statemachine.NewRegistry[Listener[ID, S, E]](),
		key:       Key[ID],
		log:       slog.Default(),
	}
	if cs, ok := store.(ConditionalStore[ID, S]); ok {
		h.conditional = cs
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.report == nil {
		h.report = statemachine.LogReporter(h.log)
	}
	return h
}

// Definition returns the definition driving this handler.
func (h *Handler[ID, S, E]) Definition() *statemachine.Definition[S, E] {
	return h.engine.Definition()
}

// RegisterListener appends l; it sees every Apply that starts afterwards.
func (h *Handler[ID, S, E]) RegisterListener(l Listener[ID, S, E]) statemachine.Handle {
	if l == nil {
		panic("persist: nil listener")
	}
	return h.listeners.Register(l)
}

// UnregisterListener removes a listener. Calls already in flight keep it.
func (h *Handler[ID, S, E]) UnregisterListener(handle statemachine.Handle) bool {
	return h.listeners.Unregister(handle)
}

// Apply moves entity id through event and returns its new, durable state.
//
// The stored state is read exactly once. A rejected event, a failing action
// or a before-persist veto leave the store untouched. When the store is a
// ConditionalStore the write only succeeds if the entity is still in the
// state that was loaded. After-persist listener failures are reported and do
// not affect the result.
func (h *Handler[ID, S, E]) Apply(ctx context.Context, id ID, event E, data any) (S, error) {
	var zero S

	if h.locker != nil {
		unlock, err := h.locker.Lock(ctx, h.key(id))
		if err != nil {
			return zero, errors.Join(ErrLockFailed, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				h.log.WarnContext(ctx, "failed to release entity lock",
					logger.EntityID(id),
					logger.Error(err),
				)
			}
		}()
	}

	from, err := h.load(ctx, id)
	if err != nil {
		return zero, err
	}

	listeners := h.listeners.Snapshot()
	m := statemachine.NewMachine(h.engine,
		statemachine.WithListeners(machineListeners(listeners)...),
		statemachine.WithErrorReporter[S, E](h.report),
	)
	m.ResetTo(from)

	out, err := m.Fire(ctx, event, data)
	if err != nil {
		if statemachine.IsRejected(err) {
			return zero, errors.Join(ErrTransitionRejected, err)
		}
		return zero, err
	}

	change := Change[ID, S, E]{
		ID:    id,
		From:  from,
		To:    out.Target(),
		Event: event,
		Data:  data,
	}

	for _, l := range listeners {
		if err := statemachine.Invoke(func() error { return l.BeforePersist(ctx, change) }); err != nil {
			return zero, errors.Join(ErrPersistenceFailed, ErrVetoed, err)
		}
	}

	if err := h.save(ctx, change); err != nil {
		return zero, err
	}

	for _, l := range listeners {
		if err := statemachine.Invoke(func() error { return l.AfterPersist(ctx, change) }); err != nil {
			h.report(ctx, statemachine.StageAfterPersist, err)
		}
	}

	return change.To, nil
}

// Inspect evaluates event against the stored state without running actions,
// notifying listeners or writing anything.
func (h *Handler[ID, S, E]) Inspect(ctx context.Context, id ID, event E, data any) (statemachine.Outcome[S, E], error) {
	from, err := h.load(ctx, id)
	if err != nil {
		return statemachine.Outcome[S, E]{}, err
	}
	return h.engine.Evaluate(ctx, from, event, data), nil
}

// State returns the stored state of id.
func (h *Handler[ID, S, E]) State(ctx context.Context, id ID) (S, error) {
	return h.load(ctx, id)
}

// PermittedEvents lists the events id would currently accept, in declaration order.
func (h *Handler[ID, S, E]) PermittedEvents(ctx context.Context, id ID, data any) ([]E, error) {
	from, err := h.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return h.engine.PermittedEvents(ctx, from, data), nil
}

func (h *Handler[ID, S, E]) load(ctx context.Context, id ID) (S, error) {
	state, err := h.store.Load(ctx, id)
	if err != nil {
		var zero S
		if errors.Is(err, ErrNotFound) {
			return zero, errors.Join(ErrUnknownEntity, err)
		}
		return zero, errors.Join(ErrLoadFailed, err)
	}
	if !h.engine.Definition().HasState(state) {
		var zero S
		return zero, errors.Join(ErrInvalidState, fmt.Errorf("entity %v stored state %v", id, state))
	}
	return state, nil
}

func (h *Handler[ID, S, E]) save(ctx context.Context, c Change[ID, S, E]) error {
	var err error
	if h.conditional != nil {
		err = h.conditional.SaveIf(ctx, c.ID, c.From, c.To)
	} else {
		err = h.store.Save(ctx, c.ID, c.To)
	}
	if err != nil {
		return errors.Join(ErrPersistenceFailed, err)
	}
	return nil
}
