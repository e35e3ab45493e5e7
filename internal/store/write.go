package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/seat"
)

// Save replaces the bus's seat rows and count in one transaction, so
// readers never observe a map without its matching count.
func (s *SQLStore) Save(ctx context.Context, bus int, snap seat.Snapshot) error {
	if err := checkShape(snap, s.capacity); err != nil {
		return saveErr(bus, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return saveErr(bus, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback() // No-op if committed

	if _, err := tx.ExecContext(ctx, `DELETE FROM bus_seats WHERE bus = ?`, bus); err != nil {
		return saveErr(bus, fmt.Errorf("clear seats: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO bus_seats (bus, seat, occupant) VALUES (?, ?, ?)`)
	if err != nil {
		return saveErr(bus, fmt.Errorf("prepare seat insert: %w", err))
	}
	defer stmt.Close()

	for _, r := range snap.Seats {
		if _, err := stmt.ExecContext(ctx, bus, r.Number, r.Occupant); err != nil {
			return saveErr(bus, fmt.Errorf("insert seat %d: %w", r.Number, err))
		}
	}

	stamp := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, s.dialect.upsertCount, bus, snap.Available, stamp); err != nil {
		return saveErr(bus, fmt.Errorf("write count: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return saveErr(bus, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Record implements activity.Recorder, writing one audit row per seat.
func (s *SQLStore) Record(ctx context.Context, e activity.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	at := e.At.UTC().Format(time.RFC3339Nano)
	for _, st := range e.Seats {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activity (ref, kind, actor, bus, seat, passenger, amount, at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, e.Ref, string(e.Kind), string(e.Actor), e.Bus, st.Seat, st.Passenger, e.Amount, at)
		if err != nil {
			return fmt.Errorf("record activity %s: %w", e.Ref, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}
