package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// Memory is an in-process Broadcaster. A subscriber whose buffer is full when
// a value arrives is closed and removed instead of blocking the broadcast, so
// a consumer always learns that it fell behind.
type Memory[T any] struct {
	mu         sync.RWMutex
	subs       map[*subscriber[T]]struct{}
	bufferSize int
	closed     bool
	dropped    atomic.Uint64
}

// NewMemory creates an in-memory broadcaster with the given per-subscriber
// buffer. Buffers smaller than 1 are raised to 1.
func NewMemory[T any](bufferSize int) *Memory[T] {
	return &Memory[T]{
		subs:       make(map[*subscriber[T]]struct{}),
		bufferSize: max(bufferSize, 1),
	}
}

// Subscribe registers a subscriber. On a closed broadcaster it returns an
// already closed subscriber.
func (m *Memory[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &subscriber[T]{
		owner: m,
		ch:    make(chan T, m.bufferSize),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		sub.close()
		return sub
	}
	m.subs[sub] = struct{}{}
	sub.stop = context.AfterFunc(ctx, func() { m.unsubscribe(sub) })
	return sub
}

// Broadcast delivers v to every subscriber that has room for it.
func (m *Memory[T]) Broadcast(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	var slow []*subscriber[T]
	for sub := range m.subs {
		if !sub.send(v) {
			slow = append(slow, sub)
		}
	}
	m.mu.RUnlock()

	for _, sub := range slow {
		m.dropped.Add(1)
		m.unsubscribe(sub)
	}
	return nil
}

// Len reports the number of active subscribers.
func (m *Memory[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Dropped reports how many subscribers were removed for being too slow.
func (m *Memory[T]) Dropped() uint64 {
	return m.dropped.Load()
}

// Close closes every subscriber. Later Subscribe calls return closed
// subscribers and Broadcast returns ErrClosed.
func (m *Memory[T]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	for sub := range m.subs {
		sub.close()
	}
	clear(m.subs)
	return nil
}

func (m *Memory[T]) unsubscribe(sub *subscriber[T]) {
	m.mu.Lock()
	delete(m.subs, sub)
	m.mu.Unlock()
	sub.close()
}

type subscriber[T any] struct {
	owner  *Memory[T]
	ch     chan T
	stop   func() bool
	mu     sync.RWMutex
	closed bool
}

func (s *subscriber[T]) C() <-chan T {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.owner.unsubscribe(s)
	return nil
}

func (s *subscriber[T]) send(v T) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return true
	}
	select {
	case s.ch <- v:
		return true
	default:
		return false
	}
}

func (s *subscriber[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	if s.stop != nil {
		s.stop()
	}
}
