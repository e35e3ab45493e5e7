package activity

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileLog appends activity lines to a per-actor text file <dir>/<actor>.txt.
// Events from anonymous actors are skipped.
type FileLog struct {
	dir string
	mu  sync.Mutex
}

// NewFileLog returns a FileLog writing under dir. The directory is created
// on first write.
func NewFileLog(dir string) *FileLog {
	return &FileLog{dir: dir}
}

// Path returns the log file of an actor.
func (l *FileLog) Path(actor Actor) string {
	return filepath.Join(l.dir, string(actor)+".txt")
}

func (l *FileLog) Record(_ context.Context, e Event) error {
	if e.Actor == Anonymous {
		return nil
	}
	lines := e.Lines()
	if len(lines) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("activity log: %w", err)
	}
	f, err := os.OpenFile(l.Path(e.Actor), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("activity log: %w", err)
	}
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("activity log: %w", err)
	}
	return f.Close()
}
