// Package statemachine provides a generic, type-safe finite-state-machine
// definition and a pure transition engine meant to drive many independent
// entities from a single definition.
//
// The package separates three concerns:
//  1. Definition – the immutable set of states (one initial), events and
//     transitions, built once with a Builder or decoded from YAML.
//  2. Engine – a stateless evaluator answering "what happens if event E
//     arrives while in state S?" without running any side effects.
//  3. Machine – a throwaway handle holding one current state, seeded with
//     ResetTo and driven by Fire, which commits accepted transitions, runs
//     their actions and notifies listeners.
//
// States and events are any comparable Go types, typically string-based
// enums:
//
//	type OrderState string
//	type OrderEvent string
//
//	const (
//	    Placed     OrderState = "PLACED"
//	    Processing OrderState = "PROCESSING"
//	    Process    OrderEvent = "process"
//	)
//
//	def := statemachine.NewBuilder[OrderState, OrderEvent]().
//	    Initial(Placed).
//	    States(Processing).
//	    Events(Process).
//	    Transition(Placed, Processing, Process).
//	    MustBuild()
//
// # Guards and Actions
//
// Guards veto a transition based on call data; every guard on a transition
// must pass. When several transitions leave the same state on the same
// event, they are tried in declaration order and the first one whose guards
// pass wins. Two unguarded transitions for the same state and event are a
// definition error.
//
// Actions run only when a machine commits a transition, never during
// evaluation, so Engine.Evaluate can be called freely for inspection.
//
// # Listener ordering
//
// For an accepted transition a Machine notifies, in this order:
// StateExited(old), TransitionFired, then runs the actions, moves to the
// target and notifies StateEntered(new). Listener failures and panics are
// handed to an ErrorReporter and never change the outcome.
//
// # Error Handling
//
//	if statemachine.IsNoMatchingTransition(err) { /* event not valid here */ }
//	if statemachine.IsGuardFailed(err)          { /* business rule said no */ }
//	if statemachine.IsDefinitionError(err)      { /* fix the configuration */ }
//
// # Concurrency
//
// Definition and Engine are immutable and may be shared by any number of
// goroutines. A Machine is single-use and must not be shared.
package statemachine
