// Package cmd implements the CLI command structure for taskboard.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/storage"
	"github.com/nibzard/taskboard/internal/store"
	"github.com/nibzard/taskboard/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// skipConfig marks commands that run without loading configuration.
const skipConfig = "skip-config"

// App carries the I/O streams and the lazily opened resources shared by all
// commands of one invocation.
type App struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	cfg     *config.Config
	logger  *log.Logger
	journal *logging.Journal
	closers []io.Closer
}

// Run executes the taskboard CLI on the process streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdin, os.Stdout, os.Stderr)
}

// Execute runs the CLI with explicit streams.
func Execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	app := &App{In: in, Out: out, ErrOut: errOut}
	defer app.Close()

	root := NewRootCommand(app)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

// NewRootCommand creates the root command. Without a subcommand it opens the
// TUI on a terminal and lists tasks otherwise.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taskboard",
		Short:         "A small task list for the terminal",
		Long:          "Create, complete, filter and clear tasks, saved locally between runs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipConfig] != "" {
				return nil
			}
			return app.loadConfig(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if ui.IsTTY(app.Out) {
				return app.runTUI(cmd.Context())
			}
			return app.list(listOptions{format: FormatText})
		},
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newTUICommand(app))
	cmd.AddCommand(newAddCommand(app))
	cmd.AddCommand(newListCommand(app))
	cmd.AddCommand(newToggleCommand(app))
	cmd.AddCommand(newEditCommand(app))
	cmd.AddCommand(newRemoveCommand(app))
	cmd.AddCommand(newClearCommand(app))
	cmd.AddCommand(newStatsCommand(app))
	cmd.AddCommand(newLogCommand(app))
	cmd.AddCommand(newConfigCommand(app))
	cmd.AddCommand(newVersionCommand(app))

	return cmd
}

func (a *App) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return WrapExitError(ExitConfigError, "loading config", err)
	}
	a.cfg = cfg
	a.logger = logging.FromConfig(a.ErrOut, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	a.logger.Debug("config loaded", "files", cfg.Files, "data_dir", cfg.DataDir, "storage", cfg.Storage)
	return nil
}

// openStore opens the configured backend and loads the task store. Mutating
// commands pass journal=true so their events are recorded.
func (a *App) openStore(journal bool) (*store.Store, error) {
	backend, err := storage.Open(a.cfg.Storage, a.cfg.DataDir)
	if err != nil {
		return nil, WrapExitError(ExitConfigError, "opening storage", err)
	}
	a.closers = append(a.closers, backend)

	priorities, err := a.cfg.PrioritySet()
	if err != nil {
		return nil, WrapExitError(ExitConfigError, "loading config", err)
	}

	opts := []store.Option{
		store.WithKey(a.cfg.StorageKey),
		store.WithPriorities(priorities),
		store.WithFilter(a.cfg.Filter()),
		store.WithLogger(a.logger),
		store.WithListener(noticePrinter{out: a.Out, errOut: a.ErrOut}),
	}
	if journal && a.cfg.Journal && a.journal == nil {
		if j, err := logging.NewJournal(a.cfg.JournalDir()); err != nil {
			a.logger.Warn("event journal disabled", "err", err)
		} else {
			a.journal = j
			a.closers = append(a.closers, j)
		}
	}
	if a.journal != nil {
		opts = append(opts, store.WithListener(a.journal))
	}
	s := store.New(backend, opts...)
	if s.LoadErr() != nil {
		fmt.Fprintln(a.ErrOut, ui.TextLoadFailed)
	}
	return s, nil
}

// Close releases everything opened during the invocation, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// checkSaved turns a failed save into an exit error. The notice itself has
// already been printed by noticePrinter.
func checkSaved(s *store.Store) error {
	if err := s.PersistErr(); err != nil {
		return WrapExitError(ExitConfigError, "saving tasks", err)
	}
	return nil
}

// noticePrinter reports store outcomes that commands do not return as errors.
type noticePrinter struct {
	out    io.Writer
	errOut io.Writer
}

func (p noticePrinter) Notify(e store.Event) {
	switch e.Type {
	case store.EventAllComplete, store.EventConfirmResolved, store.EventPersistFailed:
	default:
		return
	}
	n, ok := ui.NoticeFor(e)
	if !ok {
		return
	}
	w := p.out
	if n.Kind == ui.NoticeError {
		w = p.errOut
	}
	fmt.Fprintln(w, n.Text)
}

func newVersionCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(app.Out, "taskboard %s\n", Version)
			return nil
		},
	}
}
