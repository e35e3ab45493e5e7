package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/busreserve/internal/engine"
)

// BookOptions holds flags for the book command.
type BookOptions struct {
	*RootOptions
	Count int
	Seats []int
	Names []string
}

// NewBookCommand creates the book command.
func NewBookCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BookOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "book <bus>",
		Short: "Book seats on a bus",
		Long: `Book one or more seats on a bus. Either every seat is booked or none is.

Without --seat the command asks for each seat number and passenger name,
repeating the question until the answer is accepted. With --seat and
--name the answers are taken in order from the flags; a rejected seat
moves on to the next --seat value without using up a name.

Example:
  busres book 1 --count 2
  busres book 1 --count 2 --seat 5 --seat 6 --name Alice --name Bob --as alice`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBook(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of seats to book")
	cmd.Flags().IntSliceVar(&opts.Seats, "seat", nil, "seat number (repeatable, used in order)")
	cmd.Flags().StringArrayVar(&opts.Names, "name", nil, "passenger name (repeatable, used in order)")

	return cmd
}

func runBook(opts *BookOptions, busArg string, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	bus, err := parseNumber("bus", busArg)
	if err != nil {
		return f.Fail("bad argument", err)
	}

	s, err := openSession(ctx, opts.RootOptions, sessionOptions{})
	if err != nil {
		return f.Fail("failed to open session", err)
	}
	defer s.Close()

	var src engine.TicketSource
	var scripted *engine.ScriptedSource
	if len(opts.Seats) > 0 || len(opts.Names) > 0 {
		scripted = engine.NewScriptedSource(opts.Seats, opts.Names)
		src = scripted
	} else {
		// Prompts go to stderr under --format json so stdout stays parseable.
		promptOut := cmd.OutOrStdout()
		if opts.Format == "json" {
			promptOut = cmd.ErrOrStderr()
		}
		src = NewPromptSource(cmd.InOrStdin(), promptOut, s.cfg.SeatsPerBus)
	}

	res, err := s.engine.BookSeats(ctx, engine.BookingRequest{Bus: bus, Count: opts.Count, Actor: s.actor}, src)
	if scripted != nil {
		for _, r := range scripted.Rejections() {
			f.VerboseLog("rejected: %v", r)
		}
	}
	if err != nil {
		return f.Fail("booking failed", err)
	}

	if opts.Format == "json" {
		return f.Committed(res.Ref, res)
	}
	if res.Rejected > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d attempt(s) rejected before the booking was accepted.\n", res.Rejected)
	}
	renderBooking(cmd.OutOrStdout(), res)
	return nil
}
