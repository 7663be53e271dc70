package statemachine

import (
	"context"
)

// Guard evaluates whether a transition should be allowed based on runtime conditions.
type Guard[S, E comparable] func(ctx context.Context, from S, event E, data any) bool

// Action executes side effects when a transition commits. Returning an error aborts the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E, data any) error

// Transition defines a state change triggered by an event, with optional guards and actions.
type Transition[S, E comparable] struct {
	From    S
	To      S
	Event   E
	Guards  []Guard[S, E]  // All must pass for transition to proceed
	Actions []Action[S, E] // Executed in order when the transition commits
}

// Guarded reports whether the transition carries at least one guard.
func (t Transition[S, E]) Guarded() bool {
	return len(t.Guards) > 0
}

func (t Transition[S, E]) allows(ctx context.Context, event E, data any) bool {
	for _, guard := range t.Guards {
		if guard != nil && !guard(ctx, t.From, event, data) {
			return false
		}
	}
	return true
}

// Reason classifies the result of evaluating an event.
type Reason uint8

const (
	ReasonAccepted Reason = iota
	ReasonNoMatchingTransition
	ReasonGuardFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonAccepted:
		return "accepted"
	case ReasonNoMatchingTransition:
		return "no matching transition"
	case ReasonGuardFailed:
		return "guard failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of evaluating an event against a state.
// Transition is nil unless the event was accepted.
type Outcome[S, E comparable] struct {
	From       S
	Event      E
	Transition *Transition[S, E]
	Reason     Reason
}

// Accepted reports whether a transition was taken.
func (o Outcome[S, E]) Accepted() bool {
	return o.Reason == ReasonAccepted && o.Transition != nil
}

// Target returns the state the accepted transition leads to, or From when rejected.
func (o Outcome[S, E]) Target() S {
	if o.Transition == nil {
		return o.From
	}
	return o.Transition.To
}

// Err returns a *RejectionError for rejected outcomes and nil otherwise.
func (o Outcome[S, E]) Err() error {
	if o.Accepted() {
		return nil
	}
	return &RejectionError{
		State:  nameOf(o.From),
		Event:  nameOf(o.Event),
		Reason: o.Reason,
	}
}

// StringState and StringEvent are ready-made alphabets for simple cases.
type (
	StringState string
	StringEvent string
)

func (s StringState) String() string { return string(s) }
func (e StringEvent) String() string { return string(e) }
