package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/seat"
)

// Load reads a bus's seat rows and count. Rows outside 1..capacity are
// ignored; missing rows read as unoccupied.
func (s *SQLStore) Load(ctx context.Context, bus int) (seat.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seat, occupant FROM bus_seats
		WHERE bus = ?
		ORDER BY seat ASC
	`, bus)
	if err != nil {
		return seat.Snapshot{}, loadErr(bus, err)
	}
	defer rows.Close()

	lines := make([]string, s.capacity)
	found := 0
	for rows.Next() {
		var n int
		var occupant string
		if err := rows.Scan(&n, &occupant); err != nil {
			return seat.Snapshot{}, loadErr(bus, err)
		}
		found++
		if n >= 1 && n <= s.capacity {
			lines[n-1] = occupant
		}
	}
	if err := rows.Err(); err != nil {
		return seat.Snapshot{}, loadErr(bus, err)
	}

	var available int
	err = s.db.QueryRowContext(ctx, `SELECT available FROM bus_counts WHERE bus = ?`, bus).Scan(&available)
	countFound := true
	if errors.Is(err, sql.ErrNoRows) {
		countFound = false
	} else if err != nil {
		return seat.Snapshot{}, loadErr(bus, err)
	}

	if found == 0 && !countFound {
		return seat.Fresh(s.capacity), nil
	}
	snap := seat.Snapshot{Seats: seat.FromLines(lines, s.capacity), Available: available, Stored: true}
	if !countFound {
		snap.Available = snap.Seats.Vacancies()
	}
	return snap, nil
}

// Activity returns the audit rows of an actor, oldest first, one Event per
// seat. An empty actor returns every row.
func (s *SQLStore) Activity(ctx context.Context, actor activity.Actor) ([]activity.Event, error) {
	query := `SELECT ref, kind, actor, bus, seat, passenger, amount, at FROM activity`
	var args []any
	if actor != activity.Anonymous {
		query += ` WHERE actor = ?`
		args = append(args, string(actor))
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	var events []activity.Event
	for rows.Next() {
		var (
			e         activity.Event
			kind, who string
			at        string
			st        activity.Seat
		)
		if err := rows.Scan(&e.Ref, &kind, &who, &e.Bus, &st.Seat, &st.Passenger, &e.Amount, &at); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.Kind = activity.Kind(kind)
		e.Actor = activity.Actor(who)
		e.Seats = []activity.Seat{st}
		stamp, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("parse activity time %q: %w", at, err)
		}
		// Rows are stored in UTC; render them in the zone the file log uses.
		e.At = stamp.Local()
		events = append(events, e)
	}
	return events, rows.Err()
}
