package store

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/roach88/busreserve/internal/seat"
)

func TestFileStoreContract(t *testing.T) {
	runContract(t, func(t *testing.T) Store {
		s, err := NewFileStore(t.TempDir(), testCapacity)
		if err != nil {
			t.Fatalf("NewFileStore() failed: %v", err)
		}
		return s
	})
}

func TestFileStore_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir, 4)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}

	if err := s.Save(context.Background(), 1, bookedSnapshot(4, map[int]string{2: "Alice"})); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	count, err := os.ReadFile(filepath.Join(dir, "bus1_seats.txt"))
	if err != nil {
		t.Fatalf("read count file: %v", err)
	}
	if string(count) != "3\n" {
		t.Errorf("count file = %q, want %q", count, "3\n")
	}

	status, err := os.ReadFile(filepath.Join(dir, "bus1_status.txt"))
	if err != nil {
		t.Fatalf("read status file: %v", err)
	}
	if want := "Empty\nAlice\nEmpty\nEmpty\n"; string(status) != want {
		t.Errorf("status file = %q, want %q", status, want)
	}

	leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	if len(leftovers) != 0 {
		t.Errorf("temporary files left behind: %v", leftovers)
	}
}

func TestFileStore_PadsShortLegacyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bus2_seats.txt"), "30\n")
	writeFile(t, filepath.Join(dir, "bus2_status.txt"), "Alice\n\nBob\n")

	s, err := NewFileStore(dir, 4)
	if err != nil {
		t.Fatalf("NewFileStore() failed: %v", err)
	}
	snap, err := s.Load(context.Background(), 2)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	got := strings.Join(snap.Seats.Lines(), ",")
	if got != "Alice,Empty,Bob,Empty" {
		t.Errorf("seats = %s", got)
	}
	if snap.Available != 30 {
		t.Errorf("Available = %d, want stored value 30", snap.Available)
	}
}

func TestFileStore_MissingCountDerivesFromMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bus1_status.txt"), "Alice\nEmpty\n")

	s, _ := NewFileStore(dir, 2)
	snap, err := s.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !snap.Stored || snap.Available != 1 {
		t.Errorf("snapshot = %+v, want stored with 1 available", snap)
	}
}

func TestFileStore_GarbledCountDerivesFromMap(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bus1_seats.txt"), "lots\n")
	writeFile(t, filepath.Join(dir, "bus1_status.txt"), "Alice\nEmpty\n")

	s, _ := NewFileStore(dir, 2)
	snap, err := s.Load(context.Background(), 1)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if snap.Available != 1 {
		t.Errorf("Available = %d, want 1", snap.Available)
	}
}

func TestFileStore_UnwritableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits not enforced")
	}
	dir := t.TempDir()
	s, _ := NewFileStore(dir, 2)
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	err := s.Save(context.Background(), 1, seat.Fresh(2))
	if !seat.IsPersistence(err) {
		t.Fatalf("Save() error = %v, want PersistenceError", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
