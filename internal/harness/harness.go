package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/engine"
	"github.com/roach88/busreserve/internal/fleet"
	"github.com/roach88/busreserve/internal/seat"
	"github.com/roach88/busreserve/internal/store"
	"github.com/roach88/busreserve/internal/testutil"
)

// IsolatedStart is the first timestamp of an isolated run.
var IsolatedStart = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// Run executes a scenario against eng and returns the result.
//
// Step failures and broken invariants are collected in Result.Errors.
// The returned error is reserved for failures that stop the run, such as
// a store that can no longer be read.
func Run(ctx context.Context, eng *engine.Engine, sc *Scenario) (*Result, error) {
	result := NewResult()
	actor := activity.Actor(sc.Actor)

	for i, step := range sc.Steps {
		sr, err := runStep(ctx, eng, step, actor)
		sr.Index = i + 1
		result.Steps = append(result.Steps, sr)
		checkExpect(result, sr, step.Expect, err)

		drifts, err := eng.Verify(ctx)
		if err != nil {
			return result, fmt.Errorf("step %d: verify: %w", sr.Index, err)
		}
		for _, d := range drifts {
			result.AddError(fmt.Sprintf("step %d: bus %d count %d does not match %d vacant seats",
				sr.Index, d.Bus, d.Stored, d.Derived))
		}
	}

	if err := checkAssertions(ctx, eng, sc.Assertions, result); err != nil {
		return result, err
	}
	return result, nil
}

// RunIsolated executes a scenario on a fresh in-memory store using the
// scenario's fleet settings, fixed references ("ref-0001", ...) and a
// clock that starts at IsolatedStart and advances one minute per event.
func RunIsolated(ctx context.Context, sc *Scenario) (*Result, error) {
	names := sc.Buses
	if len(names) == 0 {
		names = fleet.DefaultNames
	}
	capacity := sc.SeatsPerBus
	if capacity == 0 {
		capacity = seat.DefaultCapacity
	}
	catalog, err := fleet.New(names, capacity)
	if err != nil {
		return nil, err
	}

	refs := make([]string, len(sc.Steps))
	for i := range refs {
		refs[i] = fmt.Sprintf("ref-%04d", i+1)
	}
	rec := &activity.Memory{}
	opts := []engine.EngineOption{
		engine.WithReferenceGenerator(engine.NewFixedGenerator(refs...)),
		engine.WithClock(testutil.NewDeterministicClock(IsolatedStart, time.Minute)),
		engine.WithRecorder(rec),
		engine.WithMaxAttempts(sc.MaxAttempts),
	}
	if sc.FarePerSeat != nil {
		opts = append(opts, engine.WithFare(*sc.FarePerSeat))
	}
	eng := engine.New(catalog, store.NewMemoryStore(capacity), opts...)

	result, err := Run(ctx, eng, sc)
	if err != nil {
		return result, err
	}
	for _, ev := range rec.Events {
		result.Activity = append(result.Activity, ev.Lines()...)
	}
	return result, nil
}

func runStep(ctx context.Context, eng *engine.Engine, step Step, actor activity.Actor) (StepResult, error) {
	sr := StepResult{Op: step.Op()}

	switch {
	case step.Book != nil:
		b := step.Book
		sr.Bus, sr.Count = b.Bus, b.Count
		src := engine.NewScriptedSource(b.Seats, b.Names)
		res, err := eng.BookSeats(ctx, engine.BookingRequest{Bus: b.Bus, Count: b.Count, Actor: actor}, src)
		for _, r := range src.Rejections() {
			sr.Rejections = append(sr.Rejections, string(seat.CodeOf(r)))
		}
		if err != nil {
			return withAvailable(ctx, eng, sr), err
		}
		sr.Ref, sr.Tickets, sr.Charge, sr.Available = res.Ref, res.Tickets, res.Charge, res.Available
		return sr, nil

	case step.Cancel != nil:
		c := step.Cancel
		sr.Bus, sr.Seat = c.Bus, c.Seat
		res, err := eng.CancelSeat(ctx, engine.CancelRequest{Bus: c.Bus, Seat: c.Seat, Actor: actor})
		if err != nil {
			return withAvailable(ctx, eng, sr), err
		}
		sr.Ref, sr.Previous, sr.Refund, sr.Available = res.Ref, res.PreviousOccupant, res.Refund, res.Available
		return sr, nil

	default:
		sr.Bus = step.Status.Bus
		st, err := eng.Status(ctx, sr.Bus)
		if err != nil {
			return sr, err
		}
		sr.Available = st.Available
		return sr, nil
	}
}

// withAvailable fills in the bus's count after a failed step so the
// transcript shows that nothing changed.
func withAvailable(ctx context.Context, eng *engine.Engine, sr StepResult) StepResult {
	if n, err := eng.AvailableCount(ctx, sr.Bus); err == nil {
		sr.Available = n
	}
	return sr
}
