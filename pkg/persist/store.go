package persist

import "context"

// Store holds the current state of each entity. Implementations must make
// Save a single atomic write.
type Store[ID comparable, S comparable] interface {
	// Load returns the stored state, or ErrNotFound.
	Load(ctx context.Context, id ID) (S, error)
	// Save overwrites the stored state.
	Save(ctx context.Context, id ID, state S) error
}

// ConditionalStore is a Store that can compare-and-swap. The Handler prefers
// SaveIf over Save so that two concurrent applies on the same entity cannot
// both commit a transition from the same source state.
type ConditionalStore[ID comparable, S comparable] interface {
	Store[ID, S]
	// SaveIf writes next only if the stored state still equals expected,
	// returning ErrStateConflict otherwise.
	SaveIf(ctx context.Context, id ID, expected, next S) error
}
