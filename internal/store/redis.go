package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/busreserve/internal/seat"
)

// KeyPrefix namespaces every key the Redis backend writes.
const KeyPrefix = "busres"

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore keeps a bus as two keys:
//
//	busres.bus.<N>.seats      list of occupant labels in seat order
//	busres.bus.<N>.available  the available count
//
// Both keys are replaced inside one MULTI/EXEC block.
type RedisStore struct {
	client   *redis.Client
	capacity int
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions, capacity int) (*RedisStore, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("store: redis ping %s: %w", opts.Addr, err)
	}
	return NewRedisStore(client, capacity), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, capacity int) *RedisStore {
	return &RedisStore{client: client, capacity: capacity}
}

func seatsKey(bus int) string     { return fmt.Sprintf("%s.bus.%d.seats", KeyPrefix, bus) }
func availableKey(bus int) string { return fmt.Sprintf("%s.bus.%d.available", KeyPrefix, bus) }

func (s *RedisStore) Load(ctx context.Context, bus int) (seat.Snapshot, error) {
	var (
		linesCmd *redis.StringSliceCmd
		countCmd *redis.StringCmd
	)
	_, err := s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		linesCmd = p.LRange(ctx, seatsKey(bus), 0, -1)
		countCmd = p.Get(ctx, availableKey(bus))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return seat.Snapshot{}, loadErr(bus, err)
	}

	lines, err := linesCmd.Result()
	if err != nil {
		return seat.Snapshot{}, loadErr(bus, err)
	}
	raw, err := countCmd.Result()
	countFound := true
	if errors.Is(err, redis.Nil) {
		countFound = false
	} else if err != nil {
		return seat.Snapshot{}, loadErr(bus, err)
	}

	if len(lines) == 0 && !countFound {
		return seat.Fresh(s.capacity), nil
	}
	snap := seat.Snapshot{Seats: seat.FromLines(lines, s.capacity), Stored: true}
	snap.Available = snap.Seats.Vacancies()
	if countFound {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			slog.Warn("unreadable seat count, deriving from seat map",
				"bus", bus, "key", availableKey(bus), "error", err)
			n = snap.Seats.Vacancies()
		}
		snap.Available = n
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, bus int, snap seat.Snapshot) error {
	if err := checkShape(snap, s.capacity); err != nil {
		return saveErr(bus, err)
	}

	lines := snap.Seats.Lines()
	values := make([]any, len(lines))
	for i, l := range lines {
		values[i] = l
	}

	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, seatsKey(bus))
		p.RPush(ctx, seatsKey(bus), values...)
		p.Set(ctx, availableKey(bus), snap.Available, 0)
		return nil
	})
	if err != nil {
		return saveErr(bus, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
