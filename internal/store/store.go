package store

import (
	"context"
	"fmt"

	"github.com/roach88/busreserve/internal/seat"
)

// Store loads and saves per-bus seat state.
type Store interface {
	// Load returns the persisted snapshot of a bus. When nothing is stored
	// it returns seat.Fresh with Stored=false.
	Load(ctx context.Context, bus int) (seat.Snapshot, error)

	// Save persists the map and count of a bus together.
	Save(ctx context.Context, bus int, snap seat.Snapshot) error

	Close() error
}

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMySQL  Backend = "mysql"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend  Backend
	Capacity int // seats per bus

	Dir        string // file backend
	SQLitePath string
	MySQLDSN   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open creates the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	if opts.Capacity < 1 {
		return nil, fmt.Errorf("store: capacity must be positive, got %d", opts.Capacity)
	}
	switch opts.Backend {
	case BackendFile, "":
		return NewFileStore(opts.Dir, opts.Capacity)
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath, opts.Capacity)
	case BackendMySQL:
		return OpenMySQL(ctx, opts.MySQLDSN, opts.Capacity)
	case BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr:     opts.RedisAddr,
			Password: opts.RedisPassword,
			DB:       opts.RedisDB,
		}, opts.Capacity)
	case BackendMemory:
		return NewMemoryStore(opts.Capacity), nil
	default:
		return nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
	}
}

func loadErr(bus int, err error) error {
	return &seat.PersistenceError{Bus: bus, Op: "load", Err: err}
}

func saveErr(bus int, err error) error {
	return &seat.PersistenceError{Bus: bus, Op: "save", Err: err}
}

// checkShape rejects a snapshot whose map does not have exactly capacity
// seats, which would otherwise be persisted truncated or padded silently.
func checkShape(snap seat.Snapshot, capacity int) error {
	if snap.Seats.Capacity() != capacity {
		return fmt.Errorf("seat map has %d seats, expected %d", snap.Seats.Capacity(), capacity)
	}
	return nil
}
