package persist

import (
	"context"

	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

// Change describes an accepted transition for one entity.
type Change[ID, S, E comparable] struct {
	ID    ID
	From  S
	To    S
	Event E
	Data  any
}

// Listener observes the whole apply cycle: the machine notifications and the
// two persistence points. A BeforePersist error vetoes the save; an
// AfterPersist error is reported and the save stands.
type Listener[ID, S, E comparable] interface {
	statemachine.Listener[S, E]
	BeforePersist(ctx context.Context, change Change[ID, S, E]) error
	AfterPersist(ctx context.Context, change Change[ID, S, E]) error
}

// ListenerAdapter implements Listener with no-ops, for embedding.
type ListenerAdapter[ID, S, E comparable] struct {
	statemachine.ListenerAdapter[S, E]
}

func (ListenerAdapter[ID, S, E]) BeforePersist(context.Context, Change[ID, S, E]) error { return nil }
func (ListenerAdapter[ID, S, E]) AfterPersist(context.Context, Change[ID, S, E]) error  { return nil }

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs[ID, S, E comparable] struct {
	statemachine.ListenerFuncs[S, E]
	OnBeforePersist func(ctx context.Context, change Change[ID, S, E]) error
	OnAfterPersist  func(ctx context.Context, change Change[ID, S, E]) error
}

func (f ListenerFuncs[ID, S, E]) BeforePersist(ctx context.Context, change Change[ID, S, E]) error {
	if f.OnBeforePersist == nil {
		return nil
	}
	return f.OnBeforePersist(ctx, change)
}

func (f ListenerFuncs[ID, S, E]) AfterPersist(ctx context.Context, change Change[ID, S, E]) error {
	if f.OnAfterPersist == nil {
		return nil
	}
	return f.OnAfterPersist(ctx, change)
}

func machineListeners[ID, S, E comparable](ls []Listener[ID, S, E]) []statemachine.Listener[S, E] {
	out := make([]statemachine.Listener[S, E], len(ls))
	for i, l := range ls {
		out[i] = l
	}
	return out
}
