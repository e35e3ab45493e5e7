package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/busreserve/internal/engine"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Repair bool
}

// VerifyResult is the JSON payload of the verify command.
type VerifyResult struct {
	Drift    []engine.Drift `json:"drift"`
	Repaired bool           `json:"repaired"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check stored counts against seat maps",
		Long: `Check that every bus's stored available count equals the number of
vacant seats in its seat map.

Exit codes:
  0 - All buses consistent (or repaired with --repair)
  1 - Drift found
  2 - Command error

Example:
  busres verify
  busres verify --repair`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Repair, "repair", false, "rewrite drifted counts from the seat map")

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	s, err := openSession(ctx, opts.RootOptions, sessionOptions{skipInit: true})
	if err != nil {
		return f.Fail("failed to open session", err)
	}
	defer s.Close()

	check := s.engine.Verify
	if opts.Repair {
		check = s.engine.Repair
	}
	drifts, err := check(ctx)
	if err != nil {
		return f.Fail("verify failed", err)
	}

	if opts.Format == "json" {
		if drifts == nil {
			drifts = []engine.Drift{}
		}
		if err := f.Success(VerifyResult{Drift: drifts, Repaired: opts.Repair}); err != nil {
			return err
		}
	} else {
		renderDrift(cmd.OutOrStdout(), drifts, opts.Repair)
	}

	if len(drifts) > 0 && !opts.Repair {
		return NewExitError(ExitFailure, fmt.Sprintf("%d bus(es) drifted", len(drifts)))
	}
	return nil
}
