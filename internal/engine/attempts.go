package engine

import "github.com/roach88/busreserve/internal/seat"

// attemptLimiter counts rejected attempts for the ticket currently being
// filled and enforces the engine's attempt limit.
//
// A limit of 0 never trips, so a caller can keep correcting the same
// ticket for as long as it supplies input.
type attemptLimiter struct {
	limit   int
	current int
}

func newAttemptLimiter(limit int) *attemptLimiter {
	return &attemptLimiter{limit: limit}
}

// Reject records a rejected attempt. It returns AttemptsExceededError once
// the ticket has used up its attempts.
func (a *attemptLimiter) Reject(bus, ticket int, reason error) error {
	a.current++
	if a.limit > 0 && a.current >= a.limit {
		return &seat.AttemptsExceededError{
			Bus:      bus,
			Ticket:   ticket,
			Attempts: a.current,
			Limit:    a.limit,
			Last:     reason,
		}
	}
	return nil
}

// Reset starts counting for the next ticket.
func (a *attemptLimiter) Reset() {
	a.current = 0
}

// Attempt is the 1-based number of the next attempt.
func (a *attemptLimiter) Attempt() int {
	return a.current + 1
}
