package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/busreserve/internal/engine"
	"github.com/roach88/busreserve/internal/seat"
)

// checkExpect compares one step outcome with its expectation.
func checkExpect(result *Result, sr StepResult, want *Expect, err error) {
	prefix := fmt.Sprintf("step %d (%s)", sr.Index, sr.Op)
	if err != nil {
		sr.Error = string(seat.CodeOf(err))
		if sr.Error == "" {
			sr.Error = err.Error()
		}
		result.Steps[len(result.Steps)-1].Error = sr.Error
	}

	if want == nil {
		want = &Expect{}
	}
	if want.Error != sr.Error {
		if sr.Error == "" {
			result.AddError(fmt.Sprintf("%s: expected error %s, got success", prefix, want.Error))
		} else {
			result.AddError(fmt.Sprintf("%s: unexpected error: %v", prefix, err))
		}
		return
	}

	if want.Available != nil && *want.Available != sr.Available {
		result.AddError(fmt.Sprintf("%s: available = %d, expected %d", prefix, sr.Available, *want.Available))
	}
	if want.Charge != nil && *want.Charge != sr.Charge {
		result.AddError(fmt.Sprintf("%s: charge = %d, expected %d", prefix, sr.Charge, *want.Charge))
	}
	if want.Refund != nil && *want.Refund != sr.Refund {
		result.AddError(fmt.Sprintf("%s: refund = %d, expected %d", prefix, sr.Refund, *want.Refund))
	}
	if want.Previous != "" && want.Previous != sr.Previous {
		result.AddError(fmt.Sprintf("%s: previous occupant = %q, expected %q", prefix, sr.Previous, want.Previous))
	}
	if want.Tickets != nil {
		got := make(map[int]string, len(sr.Tickets))
		for _, a := range sr.Tickets {
			got[a.Seat] = a.Passenger
		}
		if len(got) != len(want.Tickets) {
			result.AddError(fmt.Sprintf("%s: %d tickets, expected %d", prefix, len(got), len(want.Tickets)))
		}
		for n, name := range want.Tickets {
			if got[n] != name {
				result.AddError(fmt.Sprintf("%s: seat %d = %q, expected %q", prefix, n, got[n], name))
			}
		}
	}
	if want.Rejections != nil && !slices.Equal(want.Rejections, sr.Rejections) {
		result.AddError(fmt.Sprintf("%s: rejections = %v, expected %v", prefix, sr.Rejections, want.Rejections))
	}
}

// checkAssertions validates the final state of each asserted bus.
func checkAssertions(ctx context.Context, eng *engine.Engine, assertions []Assertion, result *Result) error {
	for i, a := range assertions {
		prefix := fmt.Sprintf("assertion %d (bus %d)", i+1, a.Bus)
		st, err := eng.Status(ctx, a.Bus)
		if err != nil {
			if seat.IsValidation(err) {
				result.AddError(fmt.Sprintf("%s: %v", prefix, err))
				continue
			}
			return fmt.Errorf("%s: %w", prefix, err)
		}
		assertStatus(result, prefix, st, a)
	}
	return nil
}

func assertStatus(result *Result, prefix string, st *engine.Status, a Assertion) {
	if a.Available != nil && st.Available != *a.Available {
		result.AddError(fmt.Sprintf("%s: available = %d, expected %d", prefix, st.Available, *a.Available))
	}
	for n, name := range a.Occupied {
		rec, ok := st.Seats.Get(n)
		if !ok {
			result.AddError(fmt.Sprintf("%s: seat %d does not exist", prefix, n))
			continue
		}
		if rec.Occupant != name {
			result.AddError(fmt.Sprintf("%s: seat %d = %q, expected %q", prefix, n, rec.Occupant, name))
		}
	}
	for _, n := range a.Vacant {
		rec, ok := st.Seats.Get(n)
		if !ok {
			result.AddError(fmt.Sprintf("%s: seat %d does not exist", prefix, n))
			continue
		}
		if !rec.Vacant() {
			result.AddError(fmt.Sprintf("%s: seat %d = %q, expected vacant", prefix, n, rec.Occupant))
		}
	}
}
