package statemachine

import (
	"context"
	"errors"
	"fmt"
)

// Machine is a short-lived, single-entity handle around an Engine and one
// mutable current-state cell. It is not safe for concurrent use and is meant
// to be created, seeded with ResetTo, fired once and dropped.
type Machine[S, E comparable] struct {
	engine    *Engine[S, E]
	current   S
	listeners []Listener[S, E]
	report    ErrorReporter
}

// NewMachine returns a machine positioned at the definition's initial state.
func NewMachine[S, E comparable](engine *Engine[S, E], opts ...MachineOption[S, E]) *Machine[S, E] {
	if engine == nil {
		panic("statemachine: nil engine")
	}
	m := &Machine[S, E]{
		engine:  engine,
		current: engine.def.initial,
		report:  LogReporter(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ResetTo overwrites the current state without consulting any transition.
// It exists to seed the machine from storage; it notifies nobody.
func (m *Machine[S, E]) ResetTo(state S) {
	m.current = state
}

// Current returns the state the machine is in.
func (m *Machine[S, E]) Current() S {
	return m.current
}

// CanFire reports whether event would be accepted from the current state.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E, data any) bool {
	return m.engine.CanFire(ctx, m.current, event, data)
}

// Fire evaluates event against the current state and, when accepted, commits it.
//
// Listeners observe an accepted transition in this exact order:
// StateExited(old), TransitionFired, then the transition's actions run, the
// current state becomes the target, and StateEntered(new). A rejected event
// changes nothing, notifies nobody and returns the outcome's *RejectionError.
// If an action fails the machine stays in the source state, StateEntered is
// not emitted and the error wraps ErrActionFailed.
func (m *Machine[S, E]) Fire(ctx context.Context, event E, data any) (Outcome[S, E], error) {
	out := m.engine.Evaluate(ctx, m.current, event, data)
	if !out.Accepted() {
		return out, out.Err()
	}

	t := *out.Transition

	for _, l := range m.listeners {
		if err := Invoke(func() error { return l.StateExited(ctx, t.From) }); err != nil {
			m.report(ctx, StageStateExited, err)
		}
	}
	for _, l := range m.listeners {
		if err := Invoke(func() error { return l.TransitionFired(ctx, t) }); err != nil {
			m.report(ctx, StageTransitionFired, err)
		}
	}

	for i, action := range t.Actions {
		if err := runAction(ctx, action, t.From, t.To, event, data); err != nil {
			return out, errors.Join(ErrActionFailed,
				fmt.Errorf("action[%d] %s -> %s on %s: %w", i, nameOf(t.From), nameOf(t.To), nameOf(event), err))
		}
	}

	m.current = t.To

	for _, l := range m.listeners {
		if err := Invoke(func() error { return l.StateEntered(ctx, t.To) }); err != nil {
			m.report(ctx, StageStateEntered, err)
		}
	}

	return out, nil
}

func runAction[S, E comparable](ctx context.Context, action Action[S, E], from, to S, event E, data any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	if action == nil {
		return nil
	}
	return action(ctx, from, to, event, data)
}
