package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/store"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the bookings and cancellations of a user",
		Long: `Print the activity log of the user given with --as, oldest first.

The SQL backends read the audit table; other backends read the user's
activity file.

Example:
  busres history --as alice`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, cmd)
		},
	}
}

func runHistory(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(cmd, opts)
	ctx := commandContext(cmd)

	if opts.As == "" {
		return f.Fail("bad arguments", NewExitError(ExitCommandError, "--as is required"))
	}

	s, err := openSession(ctx, opts, sessionOptions{skipInit: true})
	if err != nil {
		return f.Fail("failed to open session", err)
	}
	defer s.Close()

	var lines []string
	if sqlStore, ok := s.store.(*store.SQLStore); ok {
		events, err := sqlStore.Activity(ctx, s.actor)
		if err != nil {
			return f.Fail("failed to read activity", err)
		}
		for _, e := range events {
			lines = append(lines, e.Lines()...)
		}
	} else if lines, err = readActivityFile(s.files, s.actor); err != nil {
		return f.Fail("failed to read activity", err)
	}

	if opts.Format == "json" {
		if lines == nil {
			lines = []string{}
		}
		return f.Success(map[string]any{"actor": s.actor, "activity": lines})
	}
	w := cmd.OutOrStdout()
	if len(lines) == 0 {
		fmt.Fprintf(w, "No activity for %s.\n", s.actor)
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

// readActivityFile returns the lines of an actor's activity file. A missing
// file means no activity.
func readActivityFile(files *activity.FileLog, actor activity.Actor) ([]string, error) {
	if files == nil {
		return nil, nil
	}
	data, err := os.ReadFile(files.Path(actor))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
