package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskboard/internal/store"
	"github.com/nibzard/taskboard/internal/task"
	"github.com/nibzard/taskboard/internal/ui"
)

func newAddCommand(app *App) *cobra.Command {
	var priority string

	cmd := &cobra.Command{
		Use:   "add [flags] <text>...",
		Short: "Add a task",
		Long:  "Add a task to the top of the list. The words are joined with spaces.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore(true)
			if err != nil {
				return err
			}
			p, err := parsePriority(s.Priorities(), priority)
			if err != nil {
				return err
			}

			t, err := s.AddTask(strings.Join(args, " "), p)
			if err != nil {
				var verr *task.ValidationError
				if errors.As(err, &verr) {
					return NewExitError(ExitUserError, ui.TextEmptyTask)
				}
				return WrapExitError(ExitUserError, "adding task", err)
			}
			if err := checkSaved(s); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Added %d: %s (%s)\n", task.Index(s.Tasks(), t.ID)+1, normalizeText(t.Text), t.Priority)
			return nil
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Task priority (default from config)")
	return cmd
}

// parsePriority rejects labels outside the configured set. An empty value
// selects the default.
func parsePriority(set task.PrioritySet, value string) (task.Priority, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return set.Default(), nil
	}
	p := set.Resolve(task.Priority(value))
	if !strings.EqualFold(string(p), value) {
		return "", NewExitError(ExitUserError, fmt.Sprintf("invalid priority %q: must be one of %s", value, set))
	}
	return p, nil
}

type listOptions struct {
	filter string
	format string
}

func newListCommand(app *App) *cobra.Command {
	var opts listOptions

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.list(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "Show all, active or completed tasks")
	cmd.Flags().StringVar(&opts.format, "format", FormatText, "Output format (text, json, yaml)")
	return cmd
}

func (a *App) list(opts listOptions) error {
	if err := checkFormat(opts.format); err != nil {
		return err
	}
	s, err := a.openStore(false)
	if err != nil {
		return err
	}
	if opts.filter != "" {
		if err := s.SetFilter(opts.filter); err != nil {
			return WrapExitError(ExitUserError, "invalid filter", err)
		}
	}

	snap := s.Snapshot()
	if opts.format != FormatText {
		return writeStructured(a.Out, opts.format, snap)
	}
	writeSnapshot(a.Out, snap, s.Tasks())
	return nil
}

func newToggleCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <ref>",
		Aliases: []string{"done"},
		Short:   "Mark a task completed, or active again",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore(true)
			if err != nil {
				return err
			}
			t, n, err := resolveRef(s.Tasks(), args[0])
			if err != nil {
				return err
			}
			s.ToggleTask(t.ID)
			if err := checkSaved(s); err != nil {
				return err
			}

			t, _ = s.Task(t.ID)
			verb := "Reopened"
			if t.Completed {
				verb = "Completed"
			}
			fmt.Fprintf(app.Out, "%s %d: %s\n", verb, n, normalizeText(t.Text))
			return nil
		},
	}
}

func newEditCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref> <text>...",
		Short: "Change the text of a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore(true)
			if err != nil {
				return err
			}
			t, n, err := resolveRef(s.Tasks(), args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return NewExitError(ExitUserError, ui.TextEmptyTask)
			}
			if !s.EditTask(t.ID, text) {
				fmt.Fprintf(app.Out, "Unchanged %d: %s\n", n, normalizeText(t.Text))
				return nil
			}
			if err := checkSaved(s); err != nil {
				return err
			}
			t, _ = s.Task(t.ID)
			fmt.Fprintf(app.Out, "Edited %d: %s\n", n, normalizeText(t.Text))
			return nil
		},
	}
}

func newRemoveCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <ref>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore(true)
			if err != nil {
				return err
			}
			t, _, err := resolveRef(s.Tasks(), args[0])
			if err != nil {
				return err
			}
			s.RequestDelete(t.ID)
			return app.resolvePending(s, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newClearCommand(app *App) *cobra.Command {
	var (
		completed bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all tasks, or only the completed ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openStore(true)
			if err != nil {
				return err
			}

			if completed {
				err = s.RequestClearCompleted()
			} else {
				err = s.RequestClearAll()
			}
			if errors.Is(err, store.ErrNothingToClear) {
				msg := ui.TextNothingAtAll
				if completed {
					msg = ui.TextNothingCompleted
				}
				fmt.Fprintln(app.Out, msg)
				return nil
			}
			if err != nil {
				return err
			}
			return app.resolvePending(s, yes)
		},
	}

	cmd.Flags().BoolVar(&completed, "completed", false, "Only delete completed tasks")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newStatsCommand(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show task counts and progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			s, err := app.openStore(false)
			if err != nil {
				return err
			}
			if format != FormatText {
				return writeStructured(app.Out, format, s.Stats())
			}
			writeStats(app.Out, s.Stats())
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", FormatText, "Output format (text, json, yaml)")
	return cmd
}
