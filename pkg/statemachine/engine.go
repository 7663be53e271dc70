package statemachine

import (
	"context"
)

// Engine evaluates events against states using a Definition.
// It holds no mutable state and never runs actions, so evaluation can be
// repeated or used for inspection without side effects.
type Engine[S, E comparable] struct {
	def *Definition[S, E]
}

// NewEngine returns an engine for def. It panics on a nil definition.
func NewEngine[S, E comparable](def *Definition[S, E]) *Engine[S, E] {
	if def == nil {
		panic("statemachine: nil definition")
	}
	return &Engine[S, E]{def: def}
}

// Definition returns the definition the engine evaluates against.
func (e *Engine[S, E]) Definition() *Definition[S, E] {
	return e.def
}

// Evaluate finds the transition taken by event from current.
//
// Transitions leaving current are scanned in declaration order and the first
// one for event whose guards all pass is accepted. If transitions for event
// exist but every guard set fails the outcome is ReasonGuardFailed, otherwise
// ReasonNoMatchingTransition.
func (e *Engine[S, E]) Evaluate(ctx context.Context, current S, event E, data any) Outcome[S, E] {
	out := Outcome[S, E]{
		From:   current,
		Event:  event,
		Reason: ReasonNoMatchingTransition,
	}

	transitions := e.def.transitionsFrom(current)
	for i := range transitions {
		t := &transitions[i]
		if t.Event != event {
			continue
		}
		if t.allows(ctx, event, data) {
			accepted := *t
			out.Transition = &accepted
			out.Reason = ReasonAccepted
			return out
		}
		out.Reason = ReasonGuardFailed
	}

	return out
}

// CanFire reports whether event would be accepted from current.
func (e *Engine[S, E]) CanFire(ctx context.Context, current S, event E, data any) bool {
	return e.Evaluate(ctx, current, event, data).Accepted()
}

// PermittedEvents returns the declared events accepted from current, in declaration order.
func (e *Engine[S, E]) PermittedEvents(ctx context.Context, current S, data any) []E {
	var permitted []E
	for _, event := range e.def.events {
		if e.CanFire(ctx, current, event, data) {
			permitted = append(permitted, event)
		}
	}
	return permitted
}
