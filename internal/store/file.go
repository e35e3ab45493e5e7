package store

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/roach88/busreserve/internal/seat"
)

// FileStore keeps each bus in two text files under one directory:
//
//	bus<N>_seats.txt   the available count as a decimal integer
//	bus<N>_status.txt  one line per seat, the passenger name or "Empty"
type FileStore struct {
	dir      string
	capacity int
}

// NewFileStore returns a FileStore rooted at dir, creating the directory.
func NewFileStore(dir string, capacity int) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}
	return &FileStore{dir: dir, capacity: capacity}, nil
}

// CountPath is the file holding a bus's available count.
func (s *FileStore) CountPath(bus int) string {
	return filepath.Join(s.dir, fmt.Sprintf("bus%d_seats.txt", bus))
}

// MapPath is the file holding a bus's seat lines.
func (s *FileStore) MapPath(bus int) string {
	return filepath.Join(s.dir, fmt.Sprintf("bus%d_status.txt", bus))
}

func (s *FileStore) Load(_ context.Context, bus int) (seat.Snapshot, error) {
	lines, mapFound, err := readLines(s.MapPath(bus))
	if err != nil {
		return seat.Snapshot{}, loadErr(bus, err)
	}
	raw, countFound, err := readFile(s.CountPath(bus))
	if err != nil {
		return seat.Snapshot{}, loadErr(bus, err)
	}
	if !mapFound && !countFound {
		return seat.Fresh(s.capacity), nil
	}

	snap := seat.Snapshot{Seats: seat.FromLines(lines, s.capacity), Stored: true}
	if !countFound {
		snap.Available = snap.Seats.Vacancies()
		return snap, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		slog.Warn("unreadable seat count, deriving from seat map",
			"bus", bus, "path", s.CountPath(bus), "error", err)
		n = snap.Seats.Vacancies()
	}
	snap.Available = n
	return snap, nil
}

// Save writes the seat map first and the count second. Each file is
// replaced atomically through a temporary file and rename.
func (s *FileStore) Save(_ context.Context, bus int, snap seat.Snapshot) error {
	if err := checkShape(snap, s.capacity); err != nil {
		return saveErr(bus, err)
	}

	var buf bytes.Buffer
	for _, line := range snap.Seats.Lines() {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := writeAtomic(s.MapPath(bus), buf.Bytes()); err != nil {
		return saveErr(bus, err)
	}
	if err := writeAtomic(s.CountPath(bus), []byte(strconv.Itoa(snap.Available)+"\n")); err != nil {
		return saveErr(bus, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func readLines(path string) ([]string, bool, error) {
	data, found, err := readFile(path)
	if err != nil || !found {
		return nil, found, err
	}
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, true, err
	}
	return lines, true, nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, 0o644); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return err
	}
	return nil
}
