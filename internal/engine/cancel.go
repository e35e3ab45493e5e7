package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/fleet"
	"github.com/roach88/busreserve/internal/seat"
)

// CancelRequest frees one seat.
type CancelRequest struct {
	Bus   int
	Seat  int
	Actor activity.Actor
}

// CancelResult describes a committed cancellation.
type CancelResult struct {
	Ref              string    `json:"ref"`
	Bus              fleet.Bus `json:"bus"`
	Seat             int       `json:"seat"`
	PreviousOccupant string    `json:"previous_occupant"`
	Refund           int       `json:"refund"`
	Available        int       `json:"available"`
}

// CancelSeat frees an occupied seat and refunds one fare. Cancelling a
// seat that is already free returns AlreadyEmptyError and changes nothing.
func (e *Engine) CancelSeat(ctx context.Context, req CancelRequest) (*CancelResult, error) {
	bus, err := e.fleet.Resolve(req.Bus)
	if err != nil {
		return nil, err
	}
	if req.Seat < 1 || req.Seat > e.fleet.Capacity() {
		return nil, &seat.InvalidSeatError{Bus: bus.Number, Seat: req.Seat, Capacity: e.fleet.Capacity()}
	}

	unlock, err := e.locks.acquire(ctx, bus.Number)
	if err != nil {
		return nil, err
	}
	defer unlock()

	snap, err := e.load(ctx, bus.Number)
	if err != nil {
		return nil, err
	}
	rec, _ := snap.Seats.Get(req.Seat)
	if rec.Vacant() {
		return nil, &seat.AlreadyEmptyError{Bus: bus.Number, Seat: req.Seat}
	}

	work := snap.Seats.Clone()
	work[req.Seat-1].Occupant = seat.Unoccupied
	next := seat.Snapshot{Seats: work, Available: snap.Available + 1}
	if err := e.store.Save(ctx, bus.Number, next); err != nil {
		return nil, err
	}

	result := &CancelResult{
		Ref:              e.refs.Generate(),
		Bus:              bus,
		Seat:             req.Seat,
		PreviousOccupant: rec.Occupant,
		Refund:           e.fare,
		Available:        next.Available,
	}
	slog.Info("seat cancelled", "ref", result.Ref, "bus", bus.Number, "seat", req.Seat, "available", next.Available)

	e.record(ctx, activity.Event{
		Ref:     result.Ref,
		Kind:    activity.KindCancelled,
		Actor:   req.Actor,
		Bus:     bus.Number,
		BusName: bus.Name,
		Seats:   []activity.Seat{{Seat: req.Seat, Passenger: rec.Occupant}},
		Amount:  result.Refund,
		At:      e.clock.Now(),
	})
	return result, nil
}
