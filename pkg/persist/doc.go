// Package persist drives entities whose current state lives in external
// storage with a single shared statemachine.Definition.
//
// No machine is kept per entity. Each Handler.Apply call:
//
//  1. optionally locks the entity (WithLocker);
//  2. loads the stored state, exactly once;
//  3. seeds a throwaway statemachine.Machine with it and fires the event;
//  4. calls BeforePersist on every listener, any of which may veto;
//  5. saves the target state, with compare-and-swap when the store is a
//     ConditionalStore;
//  6. calls AfterPersist on every listener and returns the new state.
//
// A rejected event never writes to the store.
//
//	handler := persist.NewHandler[int64](def, memstore.New[int64, OrderState](),
//	    persist.WithLogger[int64, OrderState, OrderEvent](log),
//	)
//
//	state, err := handler.Apply(ctx, 1, Process, nil)
//	switch {
//	case persist.IsRejected(err):
//	    // event not valid in the current state
//	case persist.IsUnknownEntity(err):
//	    // no such entity
//	case persist.IsPersistenceFailed(err):
//	    // accepted but not durable, safe to retry
//	}
//
// # Concurrency
//
// Two concurrent applies on the same entity both read the same state. With a
// ConditionalStore the loser gets ErrPersistenceFailed joined with
// ErrStateConflict; with a plain Store the caller must serialise per entity,
// for example with lock.NewMemory or lock.NewRedis.
//
// # Stores
//
// Subpackages provide memstore (in-memory, ordered), pgstore (PostgreSQL),
// redisstore (Redis) and mongostore (MongoDB). All of them implement
// ConditionalStore.
package persist
