package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/busreserve/internal/seat"
)

const testCapacity = 8

// createTestStore creates a new SQLite store in a temp directory.
func createTestStore(t *testing.T) *SQLStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := OpenSQLite(path, testCapacity)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// bookedSnapshot returns a consistent snapshot with the given seats taken.
func bookedSnapshot(capacity int, occupants map[int]string) seat.Snapshot {
	m := seat.NewMap(capacity)
	for n, name := range occupants {
		m[n-1].Occupant = name
	}
	return seat.Snapshot{Seats: m, Available: m.Vacancies()}
}

// runContract exercises the behavior every Store must share.
func runContract(t *testing.T, open func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("absent bus loads fresh", func(t *testing.T) {
		s := open(t)
		snap, err := s.Load(ctx, 1)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if snap.Stored {
			t.Error("fresh snapshot reported as stored")
		}
		if snap.Available != testCapacity || snap.Seats.Vacancies() != testCapacity {
			t.Errorf("fresh snapshot = %d available / %d vacant, want %d", snap.Available, snap.Seats.Vacancies(), testCapacity)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		s := open(t)
		want := bookedSnapshot(testCapacity, map[int]string{5: "Alice", 6: "Bob Smith"})
		if err := s.Save(ctx, 2, want); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}

		got, err := s.Load(ctx, 2)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if !got.Stored {
			t.Error("saved snapshot not reported as stored")
		}
		if got.Available != want.Available {
			t.Errorf("Available = %d, want %d", got.Available, want.Available)
		}
		for i := range want.Seats {
			if got.Seats[i] != want.Seats[i] {
				t.Errorf("seat %d = %+v, want %+v", i+1, got.Seats[i], want.Seats[i])
			}
		}
	})

	t.Run("save replaces previous state", func(t *testing.T) {
		s := open(t)
		if err := s.Save(ctx, 1, bookedSnapshot(testCapacity, map[int]string{1: "Alice", 2: "Bob"})); err != nil {
			t.Fatalf("first Save() failed: %v", err)
		}
		if err := s.Save(ctx, 1, bookedSnapshot(testCapacity, map[int]string{2: "Bob"})); err != nil {
			t.Fatalf("second Save() failed: %v", err)
		}

		got, err := s.Load(ctx, 1)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if !got.Seats[0].Vacant() {
			t.Errorf("seat 1 = %q, want vacant", got.Seats[0].Occupant)
		}
		if got.Available != testCapacity-1 {
			t.Errorf("Available = %d, want %d", got.Available, testCapacity-1)
		}
	})

	t.Run("buses are independent", func(t *testing.T) {
		s := open(t)
		if err := s.Save(ctx, 1, bookedSnapshot(testCapacity, map[int]string{3: "Carol"})); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		other, err := s.Load(ctx, 2)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if other.Stored || other.Available != testCapacity {
			t.Errorf("bus 2 affected by bus 1 save: %+v", other)
		}
	})

	t.Run("inconsistent count is returned as stored", func(t *testing.T) {
		s := open(t)
		snap := bookedSnapshot(testCapacity, map[int]string{1: "Alice"})
		snap.Available = testCapacity
		if err := s.Save(ctx, 3, snap); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		got, err := s.Load(ctx, 3)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if got.Consistent() {
			t.Error("store reconciled the count; that is the engine's job")
		}
	})

	t.Run("wrong shape is rejected", func(t *testing.T) {
		s := open(t)
		err := s.Save(ctx, 1, seat.Fresh(testCapacity-1))
		if !seat.IsPersistence(err) {
			t.Errorf("Save() error = %v, want PersistenceError", err)
		}
	})

	t.Run("saved snapshot is not aliased", func(t *testing.T) {
		s := open(t)
		snap := seat.Fresh(testCapacity)
		if err := s.Save(ctx, 1, snap); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
		snap.Seats[0].Occupant = "Mallory"

		got, err := s.Load(ctx, 1)
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if !got.Seats[0].Vacant() {
			t.Error("mutating the caller's map changed stored state")
		}
	})
}
