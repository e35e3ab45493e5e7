package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewBusesCommand creates the buses command.
func NewBusesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "buses",
		Short: "List buses and their available seats",
		Long: `List every bus in the fleet with its number, name and available seat count.

Example:
  busres buses
  busres buses --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuses(rootOpts, cmd)
		},
	}
}

func runBuses(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	s, err := openSession(ctx, opts, sessionOptions{})
	if err != nil {
		return f.Fail("failed to open session", err)
	}
	defer s.Close()

	buses, err := s.engine.Buses(ctx)
	if err != nil {
		return f.Fail("failed to list buses", err)
	}

	if opts.Format == "json" {
		return f.Success(buses)
	}
	renderBusList(cmd.OutOrStdout(), buses)
	return nil
}

// parseNumber converts a positional argument, reporting bad input as a
// command error.
func parseNumber(what, arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("%s must be a number, got %q", what, arg))
	}
	return n, nil
}
