package broadcast

import (
	"context"
	"errors"
)

// ErrClosed is returned by Broadcast after the broadcaster was closed.
var ErrClosed = errors.New("broadcaster is closed")

// Subscriber receives broadcast values until it is closed.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// C returns the receive channel. It is closed when the subscriber is
	// closed, dropped for being too slow, or the broadcaster shuts down.
	C() <-chan T

	// Close detaches the subscriber. Close is idempotent.
	Close() error
}

// Broadcaster fans values out to every active subscriber.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber that lives until ctx is done or it is closed.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers v to all subscribers without blocking.
	Broadcast(ctx context.Context, v T) error

	// Close detaches and closes every subscriber.
	Close() error
}
