package statemachine

import (
	"fmt"
)

// Builder provides a fluent API for declaring a Definition.
// Problems are collected and reported together by Build.
type Builder[S, E comparable] struct {
	initials    []S
	states      []S
	events      []E
	transitions []Transition[S, E]
	issues      []DefinitionIssue

	pending      bool
	currentFrom  *S
	currentEvent *E
	currentTo    *S
	guards       []Guard[S, E]
	actions      []Action[S, E]
}

// NewBuilder creates a new definition builder.
func NewBuilder[S, E comparable]() *Builder[S, E] {
	return &Builder[S, E]{}
}

// Initial declares state and marks it as the initial one.
func (b *Builder[S, E]) Initial(state S) *Builder[S, E] {
	for _, s := range b.initials {
		if s == state {
			return b
		}
	}
	b.initials = append(b.initials, state)
	b.states = append(b.states, state)
	return b
}

// States declares non-initial states.
func (b *Builder[S, E]) States(states ...S) *Builder[S, E] {
	b.states = append(b.states, states...)
	return b
}

// Events declares the event alphabet.
func (b *Builder[S, E]) Events(events ...E) *Builder[S, E] {
	b.events = append(b.events, events...)
	return b
}

// Transition is a shorthand to declare a transition in one call.
func (b *Builder[S, E]) Transition(from, to S, event E, opts ...TransitionOption[S, E]) *Builder[S, E] {
	b.flush()
	cfg := &transitionConfig[S, E]{}
	for _, opt := range opts {
		opt(cfg)
	}
	b.transitions = append(b.transitions, Transition[S, E]{
		From:    from,
		To:      to,
		Event:   event,
		Guards:  cfg.guards,
		Actions: cfg.actions,
	})
	return b
}

// Transitions declares several transitions at once, in slice order.
func (b *Builder[S, E]) Transitions(defs ...TransitionDef[S, E]) *Builder[S, E] {
	for _, t := range defs {
		b.Transition(t.From, t.To, t.Event, WithGuards(t.Guards...), WithActions(t.Actions...))
	}
	return b
}

// From starts a step-by-step transition declaration finished by Add.
// A chain still pending from an earlier From is finalized first.
func (b *Builder[S, E]) From(state S) *Builder[S, E] {
	b.flush()
	b.pending = true
	b.currentFrom = &state
	return b
}

// On sets the event of the pending transition.
func (b *Builder[S, E]) On(event E) *Builder[S, E] {
	b.pending = true
	b.currentEvent = &event
	return b
}

// To sets the target of the pending transition.
func (b *Builder[S, E]) To(state S) *Builder[S, E] {
	b.pending = true
	b.currentTo = &state
	return b
}

// Guard adds a guard to the pending transition.
func (b *Builder[S, E]) Guard(guard Guard[S, E]) *Builder[S, E] {
	if guard != nil {
		b.guards = append(b.guards, guard)
	}
	return b
}

// Action adds an action to the pending transition.
func (b *Builder[S, E]) Action(action Action[S, E]) *Builder[S, E] {
	if action != nil {
		b.actions = append(b.actions, action)
	}
	return b
}

// Add finalizes the pending transition.
func (b *Builder[S, E]) Add() *Builder[S, E] {
	if b.currentFrom == nil || b.currentTo == nil || b.currentEvent == nil {
		b.issues = append(b.issues, DefinitionIssue{
			Code:    CodeInvalidConfiguration,
			Message: fmt.Sprintf("transition[%d] is incomplete: From, On and To are all required", len(b.transitions)),
		})
		b.reset()
		return b
	}
	b.transitions = append(b.transitions, Transition[S, E]{
		From:    *b.currentFrom,
		To:      *b.currentTo,
		Event:   *b.currentEvent,
		Guards:  b.guards,
		Actions: b.actions,
	})
	b.reset()
	return b
}

// Build validates the declarations and returns the immutable Definition.
// A pending From/On/To chain without Add is finalized implicitly.
func (b *Builder[S, E]) Build() (*Definition[S, E], error) {
	b.flush()
	return newDefinition(b)
}

// MustBuild is like Build but panics on an invalid definition, following the fail-fast pattern.
func (b *Builder[S, E]) MustBuild() *Definition[S, E] {
	def, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to build state machine definition: %v", err))
	}
	return def
}

// flush adds the pending chain, if any, keeping declaration order.
func (b *Builder[S, E]) flush() {
	if b.pending {
		b.Add()
	}
}

func (b *Builder[S, E]) reset() {
	b.pending = false
	b.currentFrom = nil
	b.currentEvent = nil
	b.currentTo = nil
	b.guards = nil
	b.actions = nil
}
