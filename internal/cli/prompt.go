package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/busreserve/internal/engine"
	"github.com/roach88/busreserve/internal/seat"
)

// ErrNoInput is returned when the terminal closes mid-booking.
var ErrNoInput = errors.New("input closed")

// PromptSource asks for each ticket on an interactive terminal.
type PromptSource struct {
	in       *bufio.Reader
	out      io.Writer
	capacity int
	pending  chan lineResult // read left running by a cancelled prompt
}

type lineResult struct {
	line string
	err  error
}

// NewPromptSource reads answers from in and writes prompts to out.
func NewPromptSource(in io.Reader, out io.Writer, capacity int) *PromptSource {
	return &PromptSource{in: bufio.NewReader(in), out: out, capacity: capacity}
}

// SelectSeat reads a seat number. Input that is not a number is passed on
// as seat 0 so the engine rejects it and the ticket is asked again.
func (p *PromptSource) SelectSeat(ctx context.Context, t engine.Ticket) (int, error) {
	fmt.Fprintf(p.out, "\nTicket %d of %d. Enter seat number to book (1-%d): ", t.Index, t.Count, p.capacity)
	line, err := p.readLine(ctx)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (p *PromptSource) PassengerName(ctx context.Context, _ engine.Ticket, seatNo int) (string, error) {
	fmt.Fprintf(p.out, "Enter passenger name for seat %d: ", seatNo)
	return p.readLine(ctx)
}

func (p *PromptSource) Reject(_ context.Context, _ engine.Ticket, reason error) error {
	var (
		invalid *seat.InvalidSeatError
		booked  *seat.SeatAlreadyBookedError
		empty   *seat.EmptyNameError
	)
	switch {
	case errors.As(reason, &invalid):
		fmt.Fprintln(p.out, "Invalid seat number. Try again.")
	case errors.As(reason, &booked):
		fmt.Fprintf(p.out, "Seat %d is already booked by %s. Choose a different seat.\n", booked.Seat, booked.Occupant)
	case errors.As(reason, &empty):
		fmt.Fprintln(p.out, "Name cannot be empty. Try again.")
	default:
		fmt.Fprintf(p.out, "%v. Try again.\n", reason)
	}
	return nil
}

// readLine waits for the next line or for ctx to end, whichever is first.
// A read abandoned by cancellation is picked up by the next call.
func (p *PromptSource) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.pending == nil {
		ch := make(chan lineResult, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()
		p.pending = ch
	}

	var r lineResult
	select {
	case r = <-p.pending:
		p.pending = nil
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if r.err != nil && !(errors.Is(r.err, io.EOF) && r.line != "") {
		if errors.Is(r.err, io.EOF) {
			return "", ErrNoInput
		}
		return "", r.err
	}
	return strings.TrimRight(r.line, "\r\n"), nil
}
