package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/taskboard/internal/store"
	"github.com/nibzard/taskboard/internal/task"
	"github.com/nibzard/taskboard/internal/ui"
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

func checkFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return NewExitError(ExitUserError, fmt.Sprintf("invalid format %q: must be one of %v", format, ValidFormats))
	}
	return nil
}

// writeStructured renders v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported format %q", format)
}

// writeSnapshot prints the visible tasks numbered by their position in all.
func writeSnapshot(w io.Writer, snap store.Snapshot, all []task.Task) {
	if len(snap.Tasks) == 0 {
		title, hint := ui.EmptyState(snap.Filter)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, hint)
		return
	}
	for _, t := range snap.Tasks {
		writeTask(w, task.Index(all, t.ID)+1, t)
	}
	fmt.Fprintln(w)
	writeStats(w, snap.Stats)
}

// writeTask formats one task line.
// Format: "{N:>4}  [x] {TEXT}  ({PRIORITY})  {SHORT ID}"
func writeTask(w io.Writer, num int, t task.Task) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	fmt.Fprintf(w, "%4d  %s %s  (%s)  %s\n", num, check, normalizeText(t.Text), t.Priority, task.ShortID(t.ID))
}

func writeStats(w io.Writer, st task.Stats) {
	fmt.Fprintf(w, "%d total, %d completed, %d active (%d%%)\n", st.Total, st.Completed, st.Active, st.Progress)
}

// normalizeText keeps a task on one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
