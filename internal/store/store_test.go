package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/busreserve/internal/seat"
)

func TestSQLiteStoreContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		return createTestStore(t)
	})
}

func TestOpenSQLite_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(path, testCapacity)
	if err != nil {
		t.Fatalf("OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(path, testCapacity)
		if err != nil {
			t.Fatalf("OpenSQLite() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := OpenSQLite(path, testCapacity)
	if err != nil {
		t.Fatalf("final OpenSQLite() failed: %v", err)
	}
	defer s.Close()

	tables := []string{"bus_seats", "bus_counts", "activity"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s := createTestStore(t)

	checks := map[string]string{
		"journal_mode": "wal",
		"synchronous":  "1", // NORMAL
		"busy_timeout": "5000",
		"foreign_keys": "1",
	}
	for name, want := range checks {
		if err := s.verifyPragma(name, want); err != nil {
			t.Error(err)
		}
	}
}

func TestOpenSQLite_SchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("query user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}

	var name string
	err := s.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='index' AND name='idx_activity_actor'",
	).Scan(&name)
	if err != nil {
		t.Errorf("activity index missing: %v", err)
	}
}

func TestSQLStore_SaveWritesOneRowPerSeat(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Save(ctx, 1, bookedSnapshot(testCapacity, map[int]string{1: "Alice"})); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := s.Save(ctx, 1, bookedSnapshot(testCapacity, map[int]string{1: "Alice", 2: "Bob"})); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	var rows int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM bus_seats WHERE bus = 1").Scan(&rows); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if rows != testCapacity {
		t.Errorf("bus_seats rows = %d, want %d", rows, testCapacity)
	}
}

func TestSQLStore_SaveHonorsCancelledContext(t *testing.T) {
	s := createTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, 1, seat.Fresh(testCapacity))
	if !seat.IsPersistence(err) {
		t.Fatalf("Save() error = %v, want PersistenceError", err)
	}

	snap, err := s.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if snap.Stored {
		t.Error("cancelled save left state behind")
	}
}

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(sqliteSchema)
	if len(stmts) != 3 {
		t.Fatalf("sqlite schema split into %d statements, want 3", len(stmts))
	}
	stmts = splitStatements(mysqlSchema)
	if len(stmts) != 3 {
		t.Fatalf("mysql schema split into %d statements, want 3", len(stmts))
	}
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		opts Options
		want string
	}{
		{Options{Backend: BackendFile, Dir: dir, Capacity: 4}, "*store.FileStore"},
		{Options{Backend: BackendMemory, Capacity: 4}, "*store.MemoryStore"},
		{Options{Backend: BackendSQLite, SQLitePath: filepath.Join(dir, "b.db"), Capacity: 4}, "*store.SQLStore"},
	}
	for _, tt := range tests {
		s, err := Open(ctx, tt.opts)
		if err != nil {
			t.Fatalf("Open(%s) failed: %v", tt.opts.Backend, err)
		}
		if got := typeName(s); got != tt.want {
			t.Errorf("Open(%s) = %s, want %s", tt.opts.Backend, got, tt.want)
		}
		s.Close()
	}

	if _, err := Open(ctx, Options{Backend: "tape", Capacity: 4}); err == nil {
		t.Error("unknown backend accepted")
	}
	if _, err := Open(ctx, Options{Backend: BackendMemory}); err == nil {
		t.Error("zero capacity accepted")
	}
}

func typeName(s Store) string {
	switch s.(type) {
	case *FileStore:
		return "*store.FileStore"
	case *MemoryStore:
		return "*store.MemoryStore"
	case *SQLStore:
		return "*store.SQLStore"
	case *RedisStore:
		return "*store.RedisStore"
	}
	return "unknown"
}
