package lock

import "errors"

var (
	// ErrNotAcquired is returned when a lock could not be taken before the context ended.
	ErrNotAcquired = errors.New("lock not acquired")
	// ErrNotHeld is returned when releasing a lock that expired or was taken over.
	ErrNotHeld = errors.New("lock not held")
	// ErrBackend wraps failures of the lock backend itself.
	ErrBackend = errors.New("lock backend failure")
)
