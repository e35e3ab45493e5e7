package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/busreserve/internal/engine"
)

// NewCancelCommand creates the cancel command.
func NewCancelCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <bus> <seat>",
		Short: "Cancel one booked seat",
		Long: `Free one booked seat and refund its fare.

Example:
  busres cancel 1 5 --as alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCancel(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runCancel(opts *RootOptions, busArg, seatArg string, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	bus, err := parseNumber("bus", busArg)
	if err != nil {
		return f.Fail("bad argument", err)
	}
	seatNo, err := parseNumber("seat", seatArg)
	if err != nil {
		return f.Fail("bad argument", err)
	}

	s, err := openSession(ctx, opts, sessionOptions{})
	if err != nil {
		return f.Fail("failed to open session", err)
	}
	defer s.Close()

	res, err := s.engine.CancelSeat(ctx, engine.CancelRequest{Bus: bus, Seat: seatNo, Actor: s.actor})
	if err != nil {
		return f.Fail("cancellation failed", err)
	}

	if opts.Format == "json" {
		return f.Committed(res.Ref, res)
	}
	renderCancellation(cmd.OutOrStdout(), res)
	return nil
}
