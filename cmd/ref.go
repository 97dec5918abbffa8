package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/taskboard/internal/task"
)

// resolveRef finds the task a command-line reference points at. A reference
// is either a 1-based position in the full list (as printed by ls) or a
// unique id prefix. An exact id match wins over prefix matches.
func resolveRef(tasks []task.Task, ref string) (task.Task, int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return task.Task{}, 0, NewExitError(ExitUserError, "task reference required")
	}

	if isAllDigits(ref) {
		n, err := strconv.Atoi(ref)
		if err == nil && n >= 1 && n <= len(tasks) {
			return tasks[n-1], n, nil
		}
	}

	if i := task.Index(tasks, ref); i >= 0 {
		return tasks[i], i + 1, nil
	}

	match := -1
	for i, t := range tasks {
		if !strings.HasPrefix(t.ID, ref) {
			continue
		}
		if match >= 0 {
			return task.Task{}, 0, NewExitError(ExitUserError, fmt.Sprintf("ambiguous task reference: %s", ref))
		}
		match = i
	}
	if match < 0 {
		return task.Task{}, 0, NewExitError(ExitUserError, fmt.Sprintf("no task matches: %s", ref))
	}
	return tasks[match], match + 1, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
