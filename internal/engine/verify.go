package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/busreserve/internal/seat"
)

// Drift reports a bus whose persisted count disagrees with its seat map.
type Drift struct {
	Bus     int `json:"bus"`
	Stored  int `json:"stored"`
	Derived int `json:"derived"`
}

// Verify checks every bus's persisted count against its seat map without
// modifying anything. An empty result means every bus is consistent.
func (e *Engine) Verify(ctx context.Context) ([]Drift, error) {
	return e.scan(ctx, false)
}

// Repair rewrites the persisted count of every drifted bus from its seat
// map and returns what it fixed.
func (e *Engine) Repair(ctx context.Context) ([]Drift, error) {
	return e.scan(ctx, true)
}

func (e *Engine) scan(ctx context.Context, fix bool) ([]Drift, error) {
	var drifts []Drift
	for _, bus := range e.fleet.Buses() {
		d, err := e.checkBus(ctx, bus.Number, fix)
		if err != nil {
			return drifts, err
		}
		if d != nil {
			drifts = append(drifts, *d)
		}
	}
	return drifts, nil
}

func (e *Engine) checkBus(ctx context.Context, bus int, fix bool) (*Drift, error) {
	unlock, err := e.locks.acquire(ctx, bus)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := e.store.Load(ctx, bus)
	if err != nil {
		return nil, err
	}
	if snap.Consistent() {
		return nil, nil
	}
	d := &Drift{Bus: bus, Stored: snap.Available, Derived: snap.Seats.Vacancies()}
	if fix {
		if err := e.store.Save(ctx, bus, snap.Reconciled()); err != nil {
			return nil, err
		}
		slog.Info("repaired available count", "bus", bus, "stored", d.Stored, "derived", d.Derived)
	}
	return d, nil
}

// Initialize persists the all-unoccupied default for every bus that has
// no stored state yet and returns the bus numbers it wrote.
func (e *Engine) Initialize(ctx context.Context) ([]int, error) {
	var created []int
	for _, bus := range e.fleet.Buses() {
		ok, err := e.initBus(ctx, bus.Number)
		if err != nil {
			return created, err
		}
		if ok {
			created = append(created, bus.Number)
		}
	}
	if len(created) > 0 {
		slog.Info("initialized seat state", "buses", created)
	}
	return created, nil
}

func (e *Engine) initBus(ctx context.Context, bus int) (bool, error) {
	unlock, err := e.locks.acquire(ctx, bus)
	if err != nil {
		return false, err
	}
	defer unlock()

	snap, err := e.store.Load(ctx, bus)
	if err != nil {
		return false, err
	}
	if snap.Stored {
		return false, nil
	}
	if err := e.store.Save(ctx, bus, seat.Fresh(e.fleet.Capacity())); err != nil {
		var pe *seat.PersistenceError
		if errors.As(err, &pe) {
			err = pe.Err
		}
		return false, &seat.PersistenceError{Bus: bus, Op: "init", Err: err}
	}
	return true, nil
}
