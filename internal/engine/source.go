package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrScriptExhausted is returned by ScriptedSource when it runs out of
// seats or names before the booking completes.
var ErrScriptExhausted = errors.New("ticket script exhausted")

// ScriptedSource replays fixed lists of seat numbers and names. Seats and
// names are consumed independently: a rejected seat does not use up a
// name.
type ScriptedSource struct {
	mu         sync.Mutex
	seats      []int
	names      []string
	seatIdx    int
	nameIdx    int
	rejections []error
}

// NewScriptedSource creates a source that answers from the given lists.
func NewScriptedSource(seats []int, names []string) *ScriptedSource {
	return &ScriptedSource{seats: seats, names: names}
}

func (s *ScriptedSource) SelectSeat(_ context.Context, t Ticket) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seatIdx >= len(s.seats) {
		return 0, fmt.Errorf("seat for ticket %d: %w", t.Index, ErrScriptExhausted)
	}
	n := s.seats[s.seatIdx]
	s.seatIdx++
	return n, nil
}

func (s *ScriptedSource) PassengerName(_ context.Context, t Ticket, _ int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameIdx >= len(s.names) {
		return "", fmt.Errorf("name for ticket %d: %w", t.Index, ErrScriptExhausted)
	}
	name := s.names[s.nameIdx]
	s.nameIdx++
	return name, nil
}

func (s *ScriptedSource) Reject(_ context.Context, _ Ticket, reason error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections = append(s.rejections, reason)
	return nil
}

// Rejections returns every rejection reported so far, in order.
func (s *ScriptedSource) Rejections() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]error, len(s.rejections))
	copy(out, s.rejections)
	return out
}
