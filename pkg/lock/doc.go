// Package lock serialises work per key for callers whose entity store offers
// no compare-and-swap.
//
// Memory covers a single process. Redis covers a fleet sharing one Redis:
// keys are taken with SET NX PX and a random token, and released through a
// compare-and-delete script so that an expired holder never frees somebody
// else's lock.
//
//	locker := lock.NewRedis(client, 10*time.Second)
//	unlock, err := locker.Lock(ctx, "order:42")
//	if err != nil {
//	    return err
//	}
//	defer unlock(context.WithoutCancel(ctx))
package lock
