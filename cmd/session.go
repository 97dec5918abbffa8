package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskboard/internal/config"
	"github.com/nibzard/taskboard/internal/logging"
	"github.com/nibzard/taskboard/internal/ui"
)

// newTUICommand launches the interactive list.
func newTUICommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runTUI(cmd.Context())
		},
	}
}

func (a *App) runTUI(ctx context.Context) error {
	if !ui.IsTTY(a.Out) {
		return NewExitError(ExitUserError, "tui requires a terminal; use ls, add or toggle instead")
	}

	// The TUI owns the terminal, so diagnostics go to the run log next to the
	// journal, or nowhere.
	var logOut io.Writer = io.Discard
	if a.cfg.Journal {
		j, err := logging.NewJournal(a.cfg.JournalDir())
		if err == nil {
			a.journal = j
			a.closers = append(a.closers, j)
			if f, err := logging.OpenRunLog(a.cfg.JournalDir(), j.RunID); err == nil {
				a.closers = append(a.closers, f)
				logOut = f
			}
		}
	}
	a.logger = logging.FromConfig(logOut, a.cfg.LogLevel, a.cfg.LogFormat, true, a.cfg.LogCaller)

	s, err := a.openStore(true)
	if err != nil {
		return err
	}
	err = ui.RunTUI(ctx, s,
		ui.WithToastDuration(a.cfg.ToastDuration()),
		ui.WithCelebrateDuration(a.cfg.CelebrateDuration()),
	)
	if err != nil && ctx.Err() == nil {
		return WrapExitError(ExitUserError, "running tui", err)
	}
	return err
}

// newLogCommand prints the newest event journal.
func newLogCommand(app *App) *cobra.Command {
	var (
		lines  int
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the latest event journal",
		Long:  "Print the newest JSONL journal of store events written by a mutating command or TUI session.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := logging.FindLatestJournal(app.cfg.JournalDir())
			if err != nil {
				return WrapExitError(ExitUserError, "finding latest journal", err)
			}
			if path == "" {
				fmt.Fprintln(app.Out, "No journal files found.")
				return nil
			}

			fmt.Fprintf(app.ErrOut, "Tailing: %s\n", path)
			if follow {
				fmt.Fprintln(app.ErrOut, "(Ctrl+C to stop)")
			}
			return logging.Tail(cmd.Context(), app.Out, path, lines, follow)
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 0, "Number of lines to show (0 = all)")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow the journal (like tail -f)")
	return cmd
}

// newConfigCommand shows the effective configuration.
func newConfigCommand(app *App) *cobra.Command {
	var (
		sources bool
		example bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if example {
				fmt.Fprint(app.Out, config.ExampleConfig())
				return nil
			}
			if sources {
				for _, f := range app.cfg.Files {
					fmt.Fprintf(app.Out, "# file: %s\n", f)
				}
				for _, field := range config.Fields() {
					fmt.Fprintf(app.Out, "%-16s %s\n", field, app.cfg.Sources[field])
				}
				return nil
			}
			return app.cfg.WriteTOML(app.Out)
		},
	}

	cmd.Flags().BoolVar(&sources, "sources", false, "Show where each setting came from")
	cmd.Flags().BoolVar(&example, "example", false, "Print an annotated example config file")
	return cmd
}
