package engine

import (
	"context"
	"sync"
)

// busLocks hands out one mutual-exclusion slot per bus. Slots are
// buffered channels so a waiting caller can give up when its context ends.
type busLocks struct {
	mu    sync.Mutex
	slots map[int]chan struct{}
}

func newBusLocks() *busLocks {
	return &busLocks{slots: make(map[int]chan struct{})}
}

// acquire blocks until the bus is free or ctx is done. The returned
// function releases the bus and must be called exactly once.
func (l *busLocks) acquire(ctx context.Context, bus int) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[bus]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[bus] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
