package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteBusFiles writes a bus's legacy count and status files into dir.
// Status lines are written verbatim so tests can reproduce short,
// blank-padded or hand-edited files.
func WriteBusFiles(t *testing.T, dir string, bus, available int, status ...string) {
	t.Helper()
	count := filepath.Join(dir, fmt.Sprintf("bus%d_seats.txt", bus))
	if err := os.WriteFile(count, []byte(fmt.Sprintf("%d\n", available)), 0o644); err != nil {
		t.Fatalf("write %s: %v", count, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("bus%d_status.txt", bus))
	body := strings.Join(status, "\n")
	if len(status) > 0 {
		body += "\n"
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// ReadStatusLines returns the lines of a bus's status file.
func ReadStatusLines(t *testing.T, dir string, bus int) []string {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("bus%d_status.txt", bus))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
