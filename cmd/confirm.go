package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/taskboard/internal/store"
)

// resolvePending settles the armed confirmation. With yes set it runs
// immediately; otherwise the description is shown and a y/N answer read
// from stdin. Anything but yes cancels.
func (a *App) resolvePending(s *store.Store, yes bool) error {
	c, ok := s.Pending()
	if !ok {
		return nil
	}

	if !yes {
		ok, err := a.confirm(c.Description)
		if err != nil {
			s.CancelPending()
			return WrapExitError(ExitUserError, "reading confirmation", err)
		}
		if !ok {
			s.CancelPending()
			fmt.Fprintln(a.Out, "Cancelled")
			return nil
		}
	}

	s.ConfirmPending()
	return checkSaved(s)
}

func (a *App) confirm(question string) (bool, error) {
	fmt.Fprintf(a.Out, "%s [y/N] ", question)
	reader := bufio.NewReader(a.In)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(a.Out)
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
