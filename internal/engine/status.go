package engine

import (
	"context"

	"github.com/roach88/busreserve/internal/fleet"
	"github.com/roach88/busreserve/internal/seat"
)

// Status is a read-only view of one bus.
type Status struct {
	Bus       fleet.Bus `json:"bus"`
	Seats     seat.Map  `json:"seats"`
	Available int       `json:"available"`
}

// BusSummary is one line of the bus listing.
type BusSummary struct {
	Bus       fleet.Bus `json:"bus"`
	Available int       `json:"available"`
	Capacity  int       `json:"capacity"`
}

// Status returns a bus's seat map and available count. It never writes.
func (e *Engine) Status(ctx context.Context, busNo int) (*Status, error) {
	bus, err := e.fleet.Resolve(busNo)
	if err != nil {
		return nil, err
	}
	snap, err := e.read(ctx, bus.Number)
	if err != nil {
		return nil, err
	}
	return &Status{Bus: bus, Seats: snap.Seats, Available: snap.Available}, nil
}

// AvailableCount returns the number of free seats on a bus.
func (e *Engine) AvailableCount(ctx context.Context, busNo int) (int, error) {
	st, err := e.Status(ctx, busNo)
	if err != nil {
		return 0, err
	}
	return st.Available, nil
}

// Buses lists every bus with its available count, in fleet order.
func (e *Engine) Buses(ctx context.Context) ([]BusSummary, error) {
	buses := e.fleet.Buses()
	out := make([]BusSummary, 0, len(buses))
	for _, bus := range buses {
		snap, err := e.read(ctx, bus.Number)
		if err != nil {
			return nil, err
		}
		out = append(out, BusSummary{Bus: bus, Available: snap.Available, Capacity: e.fleet.Capacity()})
	}
	return out, nil
}

// read loads a snapshot under the bus lock so it never observes a save
// in progress from this process.
func (e *Engine) read(ctx context.Context, bus int) (seat.Snapshot, error) {
	unlock, err := e.locks.acquire(ctx, bus)
	if err != nil {
		return seat.Snapshot{}, err
	}
	defer unlock()
	return e.load(ctx, bus)
}
