package cli

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/busreserve/internal/activity"
	"github.com/roach88/busreserve/internal/config"
	"github.com/roach88/busreserve/internal/engine"
	"github.com/roach88/busreserve/internal/store"
)

// envFile is loaded from the working directory when present.
const envFile = ".env"

// configureLogging installs the process-wide slog handler. Logs go to w
// so they never mix with JSON on stdout.
func configureLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// session is everything one command invocation works with.
type session struct {
	cfg     *config.Config
	store   store.Store
	engine  *engine.Engine
	actor   activity.Actor
	files   *activity.FileLog // nil when activity_dir is unset
	closers []io.Closer
}

// sessionOptions adjusts openSession for commands with special needs.
type sessionOptions struct {
	// skipInit leaves unpersisted buses alone at start-up.
	skipInit bool
}

// openSession loads the configuration, opens the configured store, wires
// the activity recorders and builds the engine. Unless skipInit is set it
// materializes the default state of every bus that has none; failures there
// are logged and do not stop the command.
func openSession(ctx context.Context, opts *RootOptions, so sessionOptions) (*session, error) {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg}
	if opts.As != "" {
		if s.actor, err = activity.SanitizeActor(opts.As); err != nil {
			return nil, WrapExitError(ExitCommandError, "invalid --as", err)
		}
	}

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}

	slog.Debug("opening store", "backend", cfg.Backend)
	s.store, err = store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, s.store)

	var recorders activity.Multi
	if cfg.ActivityDir != "" {
		s.files = activity.NewFileLog(cfg.ActivityDir)
		recorders = append(recorders, s.files)
	}
	if sqlStore, ok := s.store.(*store.SQLStore); ok {
		recorders = append(recorders, sqlStore)
	}
	if cfg.AMQPURL != "" {
		pub, err := activity.NewPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("activity publisher unavailable", "error", err)
		} else {
			recorders = append(recorders, pub)
			s.closers = append(s.closers, pub)
		}
	}

	s.engine = engine.New(catalog, s.store,
		engine.WithFare(cfg.FarePerSeat),
		engine.WithMaxAttempts(cfg.MaxAttempts),
		engine.WithRecorder(recorders),
	)

	if !so.skipInit {
		created, err := s.engine.Initialize(ctx)
		if err != nil {
			slog.Warn("could not initialize bus state", "error", err)
		} else if len(created) > 0 {
			slog.Debug("initialized buses", "buses", created)
		}
	}
	return s, nil
}

// Close releases the store and recorders, most recently opened first.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			slog.Error("error closing session resource", "error", err)
		}
	}
}

// loadConfig reads path, or busres.yaml when path is empty and that file
// exists, then applies .env and the environment.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return config.Load(path, envFile)
}

// commandContext returns the command's context, or Background when the
// command runs without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// newFormatter builds the output formatter for a command.
func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
