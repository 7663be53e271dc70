package persist

import (
	"errors"

	"github.com/dmitrymomot/persistfsm/pkg/statemachine"
)

// Store contract errors.
var (
	// ErrNotFound is returned by Store.Load when the entity does not exist.
	ErrNotFound = errors.New("entity not found")
	// ErrStateConflict is returned by ConditionalStore.SaveIf when the stored
	// state no longer matches the expected one.
	ErrStateConflict = errors.New("stored state changed concurrently")
)

// Apply errors.
var (
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrLoadFailed         = errors.New("failed to load entity state")
	ErrInvalidState       = errors.New("stored state is not declared by the definition")
	ErrTransitionRejected = errors.New("transition rejected")
	ErrPersistenceFailed  = errors.New("failed to persist entity state")
	ErrVetoed             = errors.New("vetoed by before-persist listener")
	ErrLockFailed         = errors.New("failed to lock entity")
	ErrInvalidCodecValue  = errors.New("value cannot be decoded into a state")
)

// IsRejected reports whether err is a rejected transition (no store write happened).
func IsRejected(err error) bool {
	return errors.Is(err, ErrTransitionRejected)
}

// IsUnknownEntity reports whether the entity was absent from the store.
func IsUnknownEntity(err error) bool {
	return errors.Is(err, ErrUnknownEntity)
}

// IsPersistenceFailed reports whether the transition was accepted but never became durable.
func IsPersistenceFailed(err error) bool {
	return errors.Is(err, ErrPersistenceFailed)
}

// IsConflict reports whether a conditional save lost a race.
func IsConflict(err error) bool {
	return errors.Is(err, ErrStateConflict)
}

// RejectionOf extracts the rejection details from an Apply error.
func RejectionOf(err error) (*statemachine.RejectionError, bool) {
	var rej *statemachine.RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
