package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create default state for buses that have none",
		Long: `Persist an all-vacant seat map and a full available count for every bus
that has no stored state yet. Buses with state are left untouched.

Every other command does this on start-up; init reports what it created.

Example:
  busres init --config busres.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	s, err := openSession(ctx, opts, sessionOptions{skipInit: true})
	if err != nil {
		return f.Fail("failed to open session", err)
	}
	defer s.Close()

	created, err := s.engine.Initialize(ctx)
	if err != nil {
		return f.Fail("init failed", err)
	}

	if opts.Format == "json" {
		if created == nil {
			created = []int{}
		}
		return f.Success(map[string][]int{"created": created})
	}

	w := cmd.OutOrStdout()
	if len(created) == 0 {
		fmt.Fprintln(w, "Every bus already has stored state.")
		return nil
	}
	catalog := s.engine.Fleet()
	for _, n := range created {
		bus, _ := catalog.Resolve(n)
		fmt.Fprintf(w, "Initialized bus %d (%s) with %d vacant seats.\n", bus.Number, bus.Name, catalog.Capacity())
	}
	return nil
}
