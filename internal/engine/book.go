package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/fleet"
	"github.com/roach88/busreserve/internal/seat"
)

// Ticket identifies one seat assignment within a booking.
type Ticket struct {
	Bus     fleet.Bus
	Index   int // 1-based position within the booking
	Count   int // tickets requested by the booking
	Attempt int // 1-based attempt for this ticket
}

// TicketSource supplies seat numbers and passenger names, one ticket at a
// time. Interactive prompts and scripted lists both implement it.
//
// An error returned from any method abandons the booking.
type TicketSource interface {
	// SelectSeat returns the seat number for the ticket.
	SelectSeat(ctx context.Context, t Ticket) (int, error)

	// PassengerName returns the raw name for an accepted seat.
	PassengerName(ctx context.Context, t Ticket, seatNo int) (string, error)

	// Reject reports why an attempt failed. Returning nil retries the same
	// ticket.
	Reject(ctx context.Context, t Ticket, reason error) error
}

// BookingRequest asks for Count seats on a bus.
type BookingRequest struct {
	Bus   int
	Count int
	Actor activity.Actor
}

// Assignment is one committed ticket.
type Assignment struct {
	Seat      int    `json:"seat"`
	Passenger string `json:"passenger"`
}

// BookingResult describes a committed booking.
type BookingResult struct {
	Ref       string       `json:"ref"`
	Bus       fleet.Bus    `json:"bus"`
	Tickets   []Assignment `json:"tickets"`
	Charge    int          `json:"charge"`
	Available int          `json:"available"`
	Rejected  int          `json:"rejected"` // attempts rejected along the way
}

// sourceError marks a failure of the TicketSource itself, as opposed to a
// rejection of the value it supplied.
type sourceError struct{ err error }

func (e *sourceError) Error() string { return e.err.Error() }
func (e *sourceError) Unwrap() error { return e.err }

// BookSeats assigns req.Count seats on one bus, or none.
//
// Request-level errors (InvalidBus, InvalidCount, InsufficientSeats,
// Persistence) are returned immediately. Ticket-level rejections go to
// src.Reject and the ticket is retried. The seat map is saved once, after
// every ticket is assigned.
func (e *Engine) BookSeats(ctx context.Context, req BookingRequest, src TicketSource) (*BookingResult, error) {
	bus, err := e.fleet.Resolve(req.Bus)
	if err != nil {
		return nil, err
	}
	if req.Count < 1 {
		return nil, &seat.InvalidCountError{Bus: bus.Number, Requested: req.Count}
	}

	unlock, err := e.locks.acquire(ctx, bus.Number)
	if err != nil {
		return nil, &seat.BookingAbandonedError{Bus: bus.Number, Ticket: 1, Err: err}
	}
	defer unlock()

	snap, err := e.load(ctx, bus.Number)
	if err != nil {
		return nil, err
	}
	if req.Count > snap.Available {
		return nil, &seat.InsufficientSeatsError{Bus: bus.Number, Requested: req.Count, Available: snap.Available}
	}

	work := snap.Seats.Clone()
	tickets := make([]Assignment, 0, req.Count)
	limiter := newAttemptLimiter(e.maxAttempts)
	rejected := 0

	for len(tickets) < req.Count {
		t := Ticket{Bus: bus, Index: len(tickets) + 1, Count: req.Count, Attempt: limiter.Attempt()}
		if err := ctx.Err(); err != nil {
			return nil, &seat.BookingAbandonedError{Bus: bus.Number, Ticket: t.Index, Err: err}
		}

		a, err := e.fillTicket(ctx, work, t, src)
		if err == nil {
			work[a.Seat-1].Occupant = a.Passenger
			tickets = append(tickets, a)
			limiter.Reset()
			continue
		}

		var se *sourceError
		if errors.As(err, &se) {
			return nil, &seat.BookingAbandonedError{Bus: bus.Number, Ticket: t.Index, Err: se.err}
		}

		rejected++
		slog.Debug("ticket rejected", "bus", bus.Number, "ticket", t.Index, "attempt", t.Attempt, "code", seat.CodeOf(err))
		if limitErr := limiter.Reject(bus.Number, t.Index, err); limitErr != nil {
			return nil, limitErr
		}
		if rerr := src.Reject(ctx, t, err); rerr != nil {
			return nil, &seat.BookingAbandonedError{Bus: bus.Number, Ticket: t.Index, Err: rerr}
		}
	}

	next := seat.Snapshot{Seats: work, Available: snap.Available - req.Count}
	if err := e.store.Save(ctx, bus.Number, next); err != nil {
		return nil, err
	}

	result := &BookingResult{
		Ref:       e.refs.Generate(),
		Bus:       bus,
		Tickets:   tickets,
		Charge:    e.fare * req.Count,
		Available: next.Available,
		Rejected:  rejected,
	}
	slog.Info("seats booked", "ref", result.Ref, "bus", bus.Number, "seats", len(tickets), "available", next.Available)

	seats := make([]activity.Seat, len(tickets))
	for i, a := range tickets {
		seats[i] = activity.Seat{Seat: a.Seat, Passenger: a.Passenger}
	}
	e.record(ctx, activity.Event{
		Ref:     result.Ref,
		Kind:    activity.KindBooked,
		Actor:   req.Actor,
		Bus:     bus.Number,
		BusName: bus.Name,
		Seats:   seats,
		Amount:  result.Charge,
		At:      e.clock.Now(),
	})
	return result, nil
}

// fillTicket runs one attempt against the in-progress map, so a seat
// assigned earlier in the same booking counts as taken.
func (e *Engine) fillTicket(ctx context.Context, work seat.Map, t Ticket, src TicketSource) (Assignment, error) {
	seatNo, err := src.SelectSeat(ctx, t)
	if err != nil {
		return Assignment{}, &sourceError{err}
	}
	rec, ok := work.Get(seatNo)
	if !ok {
		return Assignment{}, &seat.InvalidSeatError{Bus: t.Bus.Number, Seat: seatNo, Capacity: work.Capacity()}
	}
	if !rec.Vacant() {
		return Assignment{}, &seat.SeatAlreadyBookedError{Bus: t.Bus.Number, Seat: seatNo, Occupant: rec.Occupant}
	}

	raw, err := src.PassengerName(ctx, t, seatNo)
	if err != nil {
		return Assignment{}, &sourceError{err}
	}
	name, err := seat.CleanName(raw)
	if err != nil {
		return Assignment{}, seat.AtSeat(err, t.Bus.Number, seatNo)
	}
	return Assignment{Seat: seatNo, Passenger: name}, nil
}
