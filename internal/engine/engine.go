package engine

import (
	"context"
	"log/slog"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/fleet"
	"github.com/roach88/busreserve/internal/seat"
	"github.com/roach88/busreserve/internal/store"
)

// DefaultFare is the price of one seat in whole currency units.
const DefaultFare = 200

// ReferenceGenerator generates booking references.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type ReferenceGenerator interface {
	Generate() string
}

// Engine books and cancels seats against a Store.
//
// Thread-safety: all methods are safe for concurrent use.
type Engine struct {
	fleet    *fleet.Catalog
	store    store.Store
	fare     int
	refs     ReferenceGenerator
	clock    Clock
	recorder activity.Recorder
	locks    *busLocks

	// maxAttempts bounds consecutive rejected attempts per ticket.
	// Zero means unbounded.
	maxAttempts int
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithFare sets the per-seat fare used for charges and refunds.
func WithFare(fare int) EngineOption {
	return func(e *Engine) {
		e.fare = fare
	}
}

// WithMaxAttempts bounds how many times one ticket may be rejected before
// the booking is abandoned. Zero (the default) retries without limit.
func WithMaxAttempts(n int) EngineOption {
	return func(e *Engine) {
		e.maxAttempts = n
	}
}

// WithRecorder attaches an activity recorder for committed operations.
func WithRecorder(r activity.Recorder) EngineOption {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithReferenceGenerator overrides the booking reference generator.
func WithReferenceGenerator(g ReferenceGenerator) EngineOption {
	return func(e *Engine) {
		e.refs = g
	}
}

// WithClock overrides the clock used to timestamp activity.
func WithClock(c Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an Engine over the given fleet and store.
func New(catalog *fleet.Catalog, st store.Store, opts ...EngineOption) *Engine {
	e := &Engine{
		fleet:    catalog,
		store:    st,
		fare:     DefaultFare,
		refs:     UUIDv7Generator{},
		clock:    SystemClock{},
		recorder: activity.Discard,
		locks:    newBusLocks(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Fleet returns the catalog the engine serves.
func (e *Engine) Fleet() *fleet.Catalog { return e.fleet }

// Fare returns the per-seat fare.
func (e *Engine) Fare() int { return e.fare }

// load reads a bus's snapshot and corrects a count that disagrees with
// the map. Callers must hold the bus lock.
func (e *Engine) load(ctx context.Context, bus int) (seat.Snapshot, error) {
	snap, err := e.store.Load(ctx, bus)
	if err != nil {
		return seat.Snapshot{}, err
	}
	if !snap.Consistent() {
		slog.Warn("available count drifted from seat map, using seat map",
			"bus", bus,
			"stored", snap.Available,
			"derived", snap.Seats.Vacancies(),
		)
		snap = snap.Reconciled()
	}
	return snap, nil
}

// record reports a committed operation. Failures are logged, never
// returned: the seat state is already durable.
func (e *Engine) record(ctx context.Context, ev activity.Event) {
	if err := e.recorder.Record(ctx, ev); err != nil {
		slog.Warn("failed to record activity", "ref", ev.Ref, "kind", ev.Kind, "bus", ev.Bus, "error", err)
	}
}
