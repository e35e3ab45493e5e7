// Package activity records who booked or cancelled which seats.
//
// The reservation engine reports every committed operation as an Event to a
// Recorder. Recorders are best effort: the engine logs a failed Record call
// and keeps the committed seat state.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Kind is the type of a committed operation.
type Kind string

const (
	KindBooked    Kind = "booked"
	KindCancelled Kind = "cancelled"
)

// TimeLayout is the timestamp format of activity log lines.
const TimeLayout = "2006-01-02 15:04:05"

// Actor identifies the session an operation is attributed to.
// The zero value is an anonymous caller.
type Actor string

// Anonymous is the actor of an unattributed operation.
const Anonymous Actor = ""

// SanitizeActor keeps only letters, digits, '_' and '-' so the result is
// safe to use as a file name.
func SanitizeActor(raw string) (Actor, error) {
	var b strings.Builder
	for _, r := range raw {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return Anonymous, fmt.Errorf("actor %q has no usable characters", raw)
	}
	return Actor(b.String()), nil
}

// Seat is one seat touched by an operation.
type Seat struct {
	Seat      int    `json:"seat"`
	Passenger string `json:"passenger"`
}

// Event describes one committed booking or cancellation.
type Event struct {
	Ref     string    `json:"ref"`
	Kind    Kind      `json:"kind"`
	Actor   Actor     `json:"actor,omitempty"`
	Bus     int       `json:"bus"`
	BusName string    `json:"bus_name"`
	Seats   []Seat    `json:"seats"`
	Amount  int       `json:"amount"` // charge for bookings, refund for cancellations
	At      time.Time `json:"at"`
}

// Lines renders the event as activity log lines, one per seat.
func (e Event) Lines() []string {
	stamp := e.At.Format(TimeLayout)
	lines := make([]string, 0, len(e.Seats))
	for _, s := range e.Seats {
		switch e.Kind {
		case KindBooked:
			lines = append(lines, fmt.Sprintf("%s - Booked: Bus %d Seat %d Name: %s", stamp, e.Bus, s.Seat, s.Passenger))
		case KindCancelled:
			lines = append(lines, fmt.Sprintf("%s - Cancelled: Bus %d Seat %d", stamp, e.Bus, s.Seat))
		}
	}
	return lines
}

// Recorder receives committed operations.
type Recorder interface {
	Record(ctx context.Context, e Event) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, e Event) error

func (f RecorderFunc) Record(ctx context.Context, e Event) error { return f(ctx, e) }

// Discard drops every event.
var Discard Recorder = RecorderFunc(func(context.Context, Event) error { return nil })

// Multi fans an event out to several recorders. Every recorder is called
// even when an earlier one fails; the failures are joined.
type Multi []Recorder

func (m Multi) Record(ctx context.Context, e Event) error {
	var errs []error
	for _, r := range m {
		if err := r.Record(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory keeps events in a slice. Used in tests and by the scenario runner.
type Memory struct {
	Events []Event
}

func (m *Memory) Record(_ context.Context, e Event) error {
	m.Events = append(m.Events, e)
	return nil
}
