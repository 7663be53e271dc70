package lock

import "context"

// Unlock releases a lock obtained from a Locker. It must be called exactly once.
type Unlock func(ctx context.Context) error

// Locker serialises work per key. Lock blocks until the key is free, ctx is
// done, or the implementation gives up.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}
