package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/busreserve/internal/engine"
	"github.com/roach88/busreserve/internal/seat"
)

const (
	gridColumns   = 4
	gridNameWidth = 10
	ruleWidth     = 80
)

func renderBusList(w io.Writer, buses []engine.BusSummary) {
	fmt.Fprintln(w, "BUS LIST")
	fmt.Fprintln(w)
	for _, b := range buses {
		fmt.Fprintf(w, " [%d] %s   - Available seats: %d\n", b.Bus.Number, b.Bus.Name, b.Available)
	}
}

// renderSeatGrid prints the seat map four seats to a row. Occupant names
// are cut to ten characters.
func renderSeatGrid(w io.Writer, st *engine.Status) {
	fmt.Fprintf(w, "Bus %d --> %s\n", st.Bus.Number, st.Bus.Name)
	fmt.Fprintln(w, strings.Repeat("-", ruleWidth))
	for i := 0; i < len(st.Seats); i += gridColumns {
		row := st.Seats[i:min(i+gridColumns, len(st.Seats))]
		cells := make([]string, len(row))
		for j, rec := range row {
			cells[j] = fmt.Sprintf("%2d.%-*s", rec.Number, gridNameWidth, gridLabel(rec))
		}
		fmt.Fprintf(w, "    %s\n", strings.TrimRight(strings.Join(cells, "  "), " "))
	}
	fmt.Fprintf(w, "Available seats: %d\n", st.Available)
}

func gridLabel(rec seat.Record) string {
	if rec.Vacant() {
		return seat.Unoccupied
	}
	r := []rune(rec.Occupant)
	if len(r) > gridNameWidth {
		r = r[:gridNameWidth]
	}
	return string(r)
}

func renderBooking(w io.Writer, res *engine.BookingResult) {
	for _, a := range res.Tickets {
		fmt.Fprintf(w, "Seat %d booked for %s.\n", a.Seat, a.Passenger)
	}
	fmt.Fprintf(w, "Booking complete. Total charge: Rs %d\n", res.Charge)
	fmt.Fprintf(w, "Reference: %s\n", res.Ref)
}

func renderCancellation(w io.Writer, res *engine.CancelResult) {
	fmt.Fprintf(w, "Cancelled seat %d booked by %s.\n", res.Seat, res.PreviousOccupant)
	fmt.Fprintf(w, "Rs %d will be refunded.\n", res.Refund)
	fmt.Fprintf(w, "Reference: %s\n", res.Ref)
}

func renderDrift(w io.Writer, drifts []engine.Drift, repaired bool) {
	if len(drifts) == 0 {
		fmt.Fprintln(w, "All buses consistent.")
		return
	}
	for _, d := range drifts {
		fmt.Fprintf(w, "Bus %d: stored count %d, seat map has %d vacant\n", d.Bus, d.Stored, d.Derived)
	}
	if repaired {
		fmt.Fprintf(w, "Repaired %d bus(es).\n", len(drifts))
	}
}
