package cli

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <bus>",
		Short: "Show a bus's seat map",
		Long: `Show every seat of a bus, four to a row, with the passenger booked on it.

Example:
  busres status 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(rootOpts, args[0], cmd)
		},
	}
}

func runStatus(opts *RootOptions, busArg string, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	bus, err := parseNumber("bus", busArg)
	if err != nil {
		return f.Fail("bad argument", err)
	}

	s, err := openSession(ctx, opts, sessionOptions{})
	if err != nil {
		return f.Fail("failed to open session", err)
	}
	defer s.Close()

	st, err := s.engine.Status(ctx, bus)
	if err != nil {
		return f.Fail("status failed", err)
	}

	if opts.Format == "json" {
		return f.Success(st)
	}
	renderSeatGrid(cmd.OutOrStdout(), st)
	return nil
}
