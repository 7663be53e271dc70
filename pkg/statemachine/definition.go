package statemachine

import (
	"slices"
)

// Definition is the immutable description of a state machine: its states
// (one of them initial), its events and its transitions.
//
// Transitions sharing a source state and event are kept in declaration
// order. When more than one of them has passing guards, the first declared
// one wins. Two unguarded transitions for the same source and event are
// rejected at build time because the second one could never fire.
//
// A Definition is safe for concurrent use by any number of machines.
type Definition[S, E comparable] struct {
	initial     S
	states      []S
	stateSet    map[S]struct{}
	events      []E
	eventSet    map[E]struct{}
	transitions []Transition[S, E]
	bySource    map[S][]Transition[S, E]
}

// InitialState returns the state new entities start in.
func (d *Definition[S, E]) InitialState() S {
	return d.initial
}

// States returns the declared states in declaration order.
func (d *Definition[S, E]) States() []S {
	return slices.Clone(d.states)
}

// Events returns the declared events in declaration order.
func (d *Definition[S, E]) Events() []E {
	return slices.Clone(d.events)
}

// Transitions returns every transition in declaration order.
func (d *Definition[S, E]) Transitions() []Transition[S, E] {
	return slices.Clone(d.transitions)
}

// TransitionsFrom returns the transitions leaving state in declaration order.
func (d *Definition[S, E]) TransitionsFrom(state S) []Transition[S, E] {
	return slices.Clone(d.bySource[state])
}

// HasState reports whether state is declared.
func (d *Definition[S, E]) HasState(state S) bool {
	_, ok := d.stateSet[state]
	return ok
}

// HasEvent reports whether event is declared.
func (d *Definition[S, E]) HasEvent(event E) bool {
	_, ok := d.eventSet[event]
	return ok
}

// IsTerminal reports whether no transition leaves state.
func (d *Definition[S, E]) IsTerminal(state S) bool {
	return len(d.bySource[state]) == 0
}

// transitionsFrom is the allocation-free variant used on the evaluation path.
func (d *Definition[S, E]) transitionsFrom(state S) []Transition[S, E] {
	return d.bySource[state]
}

func newDefinition[S, E comparable](b *Builder[S, E]) (*Definition[S, E], error) {
	errs := &DefinitionError{Issues: slices.Clone(b.issues)}

	switch len(b.initials) {
	case 0:
		errs.add(CodeMissingInitial, "initial state is required")
	case 1:
	default:
		names := make([]string, 0, len(b.initials))
		for _, s := range b.initials {
			names = append(names, nameOf(s))
		}
		errs.add(CodeDuplicateInitial, "exactly one initial state is allowed, got %v", names)
	}

	def := &Definition[S, E]{
		stateSet: make(map[S]struct{}, len(b.states)),
		eventSet: make(map[E]struct{}, len(b.events)),
		bySource: make(map[S][]Transition[S, E]),
	}
	if len(b.initials) > 0 {
		def.initial = b.initials[0]
	}
	for _, s := range b.states {
		if _, ok := def.stateSet[s]; ok {
			continue
		}
		def.stateSet[s] = struct{}{}
		def.states = append(def.states, s)
	}
	for _, e := range b.events {
		if _, ok := def.eventSet[e]; ok {
			continue
		}
		def.eventSet[e] = struct{}{}
		def.events = append(def.events, e)
	}

	type key struct {
		from  S
		event E
	}
	unguarded := make(map[key]int)

	for i, t := range b.transitions {
		if !def.HasState(t.From) {
			errs.add(CodeUndeclaredSource, "transition[%d] %s -> %s on %s: source state is not declared",
				i, nameOf(t.From), nameOf(t.To), nameOf(t.Event))
		}
		if !def.HasState(t.To) {
			errs.add(CodeUndeclaredTarget, "transition[%d] %s -> %s on %s: target state is not declared",
				i, nameOf(t.From), nameOf(t.To), nameOf(t.Event))
		}
		if !def.HasEvent(t.Event) {
			errs.add(CodeUndeclaredEvent, "transition[%d] %s -> %s on %s: event is not declared",
				i, nameOf(t.From), nameOf(t.To), nameOf(t.Event))
		}
		if !t.Guarded() {
			k := key{from: t.From, event: t.Event}
			if first, ok := unguarded[k]; ok {
				errs.add(CodeAmbiguousTransition, "transition[%d] and transition[%d] both leave %s on %s without guards",
					first, i, nameOf(t.From), nameOf(t.Event))
			} else {
				unguarded[k] = i
			}
		}

		t.Guards = slices.Clone(t.Guards)
		t.Actions = slices.Clone(t.Actions)
		def.transitions = append(def.transitions, t)
		def.bySource[t.From] = append(def.bySource[t.From], t)
	}

	if len(errs.Issues) > 0 {
		return nil, errs
	}
	return def, nil
}
