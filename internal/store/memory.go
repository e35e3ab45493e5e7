package store

import (
	"context"
	"sync"

	"github.com/roach88/busreserve/internal/seat"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu       sync.Mutex
	capacity int
	buses    map[int]seat.Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{capacity: capacity, buses: make(map[int]seat.Snapshot)}
}

func (s *MemoryStore) Load(_ context.Context, bus int) (seat.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.buses[bus]
	if !ok {
		return seat.Fresh(s.capacity), nil
	}
	snap.Seats = snap.Seats.Clone()
	snap.Stored = true
	return snap, nil
}

func (s *MemoryStore) Save(_ context.Context, bus int, snap seat.Snapshot) error {
	if err := checkShape(snap, s.capacity); err != nil {
		return saveErr(bus, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap.Seats = snap.Seats.Clone()
	s.buses[bus] = snap
	return nil
}

func (s *MemoryStore) Close() error { return nil }
