package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/busreserve/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Memory bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <script>...",
		Short: "Execute booking scripts",
		Long: `Execute YAML booking scripts step by step, checking each step's
expectations and the count invariant after every step.

By default scripts run against the configured store and change it. With
--memory each script runs on a throwaway in-memory store using the
script's own fleet settings, fixed references and a fixed clock, and the
full transcript is printed.

Exit codes:
  0 - All scripts passed
  1 - One or more scripts failed
  2 - Command error (unreadable script, storage unavailable)

Example:
  busres run scripts/rush_hour.yaml
  busres run --memory scripts/*.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScripts(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Memory, "memory", false, "run on a throwaway in-memory store")

	return cmd
}

// ScriptResult is the JSON payload for one script.
type ScriptResult struct {
	Name   string          `json:"name"`
	Path   string          `json:"path"`
	Result *harness.Result `json:"result"`
}

func runScripts(opts *RunOptions, paths []string, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts.RootOptions)
	ctx := commandContext(cmd)

	scenarios := make([]*harness.Scenario, len(paths))
	for i, path := range paths {
		sc, err := harness.LoadScenario(path)
		if err != nil {
			return f.Fail("failed to load script", WrapExitError(ExitCommandError, filepath.Base(path), err))
		}
		scenarios[i] = sc
	}

	var s *session
	if !opts.Memory {
		var err error
		if s, err = openSession(ctx, opts.RootOptions, sessionOptions{}); err != nil {
			return f.Fail("failed to open session", err)
		}
		defer s.Close()
	}

	results := make([]ScriptResult, 0, len(scenarios))
	var failed []string
	for i, sc := range scenarios {
		var (
			result *harness.Result
			err    error
		)
		if opts.Memory {
			result, err = harness.RunIsolated(ctx, sc)
		} else {
			result, err = harness.Run(ctx, s.engine, sc)
		}
		if err != nil {
			return f.Fail(fmt.Sprintf("script %s stopped", sc.Name), err)
		}
		if !result.Pass {
			failed = append(failed, sc.Name)
		}
		results = append(results, ScriptResult{Name: sc.Name, Path: paths[i], Result: result})

		if opts.Format != "json" {
			fmt.Fprint(cmd.OutOrStdout(), result.Transcript(sc.Name))
		}
	}

	if opts.Format == "json" {
		if err := f.Success(results); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return NewExitError(ExitFailure, "scripts failed: "+strings.Join(failed, ", "))
	}
	return nil
}
