package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/busreserve/internal/engine"
	"github.com/roach88/busreserve/internal/fleet"
	"github.com/roach88/busreserve/internal/seat"
)

func TestPromptSource_ReadsAnswers(t *testing.T) {
	out := &bytes.Buffer{}
	p := NewPromptSource(strings.NewReader("7\r\nAlice Smith\n"), out, 32)
	ticket := engine.Ticket{Bus: fleet.Bus{Number: 1}, Index: 1, Count: 2, Attempt: 1}

	n, err := p.SelectSeat(context.Background(), ticket)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	name, err := p.PassengerName(context.Background(), ticket, 7)
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", name)

	assert.Contains(t, out.String(), "Ticket 1 of 2. Enter seat number to book (1-32): ")
	assert.Contains(t, out.String(), "Enter passenger name for seat 7: ")
}

func TestPromptSource_NonNumericSeat(t *testing.T) {
	p := NewPromptSource(strings.NewReader("front row\n"), &bytes.Buffer{}, 32)

	n, err := p.SelectSeat(context.Background(), engine.Ticket{Index: 1, Count: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestPromptSource_SeatWithSurroundingSpaces(t *testing.T) {
	for _, input := range []string{" 5\n", "5 \n", "\t5\t\n"} {
		t.Run(fmt.Sprintf("%q", input), func(t *testing.T) {
			p := NewPromptSource(strings.NewReader(input), &bytes.Buffer{}, 32)

			n, err := p.SelectSeat(context.Background(), engine.Ticket{Index: 1, Count: 1})
			require.NoError(t, err)
			assert.Equal(t, 5, n)
		})
	}
}

func TestPromptSource_LastLineWithoutNewline(t *testing.T) {
	p := NewPromptSource(strings.NewReader("Zed"), &bytes.Buffer{}, 32)

	name, err := p.PassengerName(context.Background(), engine.Ticket{}, 1)
	require.NoError(t, err)
	assert.Equal(t, "Zed", name)
}

func TestPromptSource_InputClosed(t *testing.T) {
	p := NewPromptSource(strings.NewReader(""), &bytes.Buffer{}, 32)

	_, err := p.SelectSeat(context.Background(), engine.Ticket{Index: 1, Count: 1})
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestPromptSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPromptSource(strings.NewReader("3\n"), &bytes.Buffer{}, 32)

	_, err := p.SelectSeat(ctx, engine.Ticket{Index: 1, Count: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPromptSource_CancelWhileWaiting(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewPromptSource(r, &bytes.Buffer{}, 32)
	ticket := engine.Ticket{Index: 1, Count: 1}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := p.SelectSeat(ctx, ticket)
		done <- err
	}()
	time.AfterFunc(50*time.Millisecond, cancel)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("SelectSeat still waiting after cancel")
	}

	// The line typed after the cancelled prompt goes to the next one.
	go fmt.Fprint(w, "4\n")
	n, err := p.SelectSeat(context.Background(), ticket)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestPromptSource_RejectMessages(t *testing.T) {
	tests := []struct {
		name   string
		reason error
		want   string
	}{
		{"invalid seat", &seat.InvalidSeatError{Bus: 1, Seat: 40, Capacity: 32}, "Invalid seat number. Try again.\n"},
		{"booked", &seat.SeatAlreadyBookedError{Bus: 1, Seat: 5, Occupant: "Alice"}, "Seat 5 is already booked by Alice. Choose a different seat.\n"},
		{"empty name", &seat.EmptyNameError{Bus: 1, Seat: 5}, "Name cannot be empty. Try again.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			p := NewPromptSource(strings.NewReader(""), out, 32)
			require.NoError(t, p.Reject(context.Background(), engine.Ticket{}, tt.reason))
			assert.Equal(t, tt.want, out.String())
		})
	}

	out := &bytes.Buffer{}
	p := NewPromptSource(strings.NewReader(""), out, 32)
	require.NoError(t, p.Reject(context.Background(), engine.Ticket{}, &seat.ReservedNameError{Bus: 1, Seat: 2, Name: "Empty"}))
	assert.True(t, strings.HasSuffix(out.String(), ". Try again.\n"))
}
