// Package ui provides the terminal interface.
package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskboard/internal/store"
	"github.com/nibzard/taskboard/internal/task"
)

// Durations of the cosmetic effects.
const (
	shakeDuration = 500 * time.Millisecond
	pulseDuration = 200 * time.Millisecond
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	toast     time.Duration
	celebrate time.Duration
	altScreen bool
}

// WithToastDuration sets how long notices stay visible.
func WithToastDuration(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.toast = d
		}
	}
}

// WithCelebrateDuration sets how long the all-complete celebration lasts.
func WithCelebrateDuration(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		if d > 0 {
			c.celebrate = d
		}
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

func defaultTUIConfig() tuiConfig {
	return tuiConfig{
		toast:     2 * time.Second,
		celebrate: 3 * time.Second,
		altScreen: true,
	}
}

// RunTUI runs the interactive task list on s until the user quits or ctx is
// done. The store must not be used elsewhere while the TUI runs.
func RunTUI(ctx context.Context, s *store.Store, opts ...TUIOption) error {
	c := defaultTUIConfig()
	for _, opt := range opts {
		opt(&c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(newTUIModel(s, c), programOpts...).Run()
	return err
}

type mode int

const (
	modeList mode = iota
	modeInput
	modeEdit
)

// effect is a timed cosmetic state.
type effect int

const (
	effectToast effect = iota
	effectShake
	effectPulse
	effectCelebrate
	numEffects
)

// expireMsg ends an effect unless a newer one of the same kind started since.
type expireMsg struct {
	effect effect
	seq    int
}

type tuiModel struct {
	store  *store.Store
	events *store.Recorder
	cfg    tuiConfig

	snap     store.Snapshot
	cursor   int
	mode     mode
	input    textinput.Model
	priority task.Priority
	editID   string
	showHelp bool

	notice  Notice
	pulseID string
	active  [numEffects]bool
	seq     [numEffects]int

	initCmd tea.Cmd
}

func newTUIModel(s *store.Store, cfg tuiConfig) *tuiModel {
	ti := textinput.New()
	ti.Placeholder = "What needs to be done?"
	ti.CharLimit = 500
	ti.Width = 50

	m := &tuiModel{
		store:    s,
		events:   &store.Recorder{},
		cfg:      cfg,
		snap:     s.Snapshot(),
		input:    ti,
		priority: s.Priorities().Default(),
	}
	s.Subscribe(m.events)

	if s.LoadErr() != nil {
		m.initCmd = m.show(Notice{TextLoadFailed, NoticeError}, cfg.toast)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return m.initCmd
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		var cmd tea.Cmd
		switch {
		case m.hasPending():
			m.updateConfirm(msg.String())
		case m.mode == modeInput:
			cmd = m.updateInput(msg)
		case m.mode == modeEdit:
			cmd = m.updateEdit(msg)
		default:
			if msg.String() == "q" {
				return m, tea.Quit
			}
			cmd = m.updateList(msg.String())
		}
		return m, tea.Batch(cmd, m.drain())
	case tea.WindowSizeMsg:
		m.input.Width = max(10, msg.Width-20)
	case expireMsg:
		if msg.seq == m.seq[msg.effect] {
			m.active[msg.effect] = false
			if msg.effect == effectPulse {
				m.pulseID = ""
			}
		}
	}
	return m, nil
}

func (m *tuiModel) hasPending() bool {
	_, ok := m.store.Pending()
	return ok
}

func (m *tuiModel) updateConfirm(key string) {
	switch key {
	case "y", "Y", "enter":
		m.store.ConfirmPending()
	case "n", "N", "esc":
		m.store.CancelPending()
	}
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return nil
	case "tab":
		m.priority = m.store.Priorities().Next(m.priority)
		return nil
	case "enter":
		if _, err := m.store.AddTask(m.input.Value(), m.priority); err == nil {
			m.input.SetValue("")
			m.cursor = 0
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *tuiModel) updateEdit(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.stopEditing()
		return nil
	case "enter":
		m.store.EditTask(m.editID, m.input.Value())
		m.stopEditing()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *tuiModel) stopEditing() {
	m.mode = modeList
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *tuiModel) updateList(key string) tea.Cmd {
	switch key {
	case "?", "h":
		m.showHelp = !m.showHelp
	case "a", "i":
		m.mode = modeInput
		return m.input.Focus()
	case "tab":
		m.priority = m.store.Priorities().Next(m.priority)
	case "j", "down":
		m.cursor = clampCursor(m.cursor+1, len(m.snap.Tasks))
	case "k", "up":
		m.cursor = clampCursor(m.cursor-1, len(m.snap.Tasks))
	case " ", "x":
		if t, ok := m.selected(); ok && m.store.ToggleTask(t.ID) {
			if now, _ := m.store.Task(t.ID); now.Completed {
				m.pulseID = t.ID
				return m.start(effectPulse, pulseDuration)
			}
		}
	case "e":
		if t, ok := m.selected(); ok {
			m.mode = modeEdit
			m.editID = t.ID
			m.input.SetValue(t.Text)
			m.input.CursorEnd()
			return m.input.Focus()
		}
	case "d":
		if t, ok := m.selected(); ok {
			m.store.RequestDelete(t.ID)
		}
	case "1":
		m.store.SetFilter(string(task.FilterAll))
	case "2":
		m.store.SetFilter(string(task.FilterActive))
	case "3":
		m.store.SetFilter(string(task.FilterCompleted))
	case "f":
		m.store.SetFilter(string(nextFilter(m.snap.Filter)))
	case "c":
		m.store.RequestClearCompleted()
	case "C":
		m.store.RequestClearAll()
	}
	return nil
}

func nextFilter(f task.Filter) task.Filter {
	filters := task.Filters()
	for i, candidate := range filters {
		if candidate == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return task.FilterAll
}

func (m *tuiModel) selected() (task.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snap.Tasks) {
		return task.Task{}, false
	}
	return m.snap.Tasks[m.cursor], true
}

// drain applies buffered store events to the view state.
func (m *tuiModel) drain() tea.Cmd {
	var cmds []tea.Cmd
	celebrated := false
	for _, e := range m.events.Drain() {
		switch e.Type {
		case store.EventSnapshot:
			m.snap = *e.Snapshot
		case store.EventAllComplete:
			cmds = append(cmds,
				m.start(effectCelebrate, m.cfg.celebrate),
				m.show(Notice{TextAllComplete, NoticeSuccess}, m.cfg.celebrate))
			celebrated = true
			continue
		case store.EventRejected:
			if e.Reason == store.ReasonEmptyText {
				cmds = append(cmds, m.start(effectShake, shakeDuration))
				continue
			}
		}
		if n, ok := NoticeFor(e); ok {
			// The celebration outranks the notice of the action that caused it.
			if celebrated && n.Kind != NoticeError {
				continue
			}
			cmds = append(cmds, m.show(n, m.cfg.toast))
		}
	}
	m.cursor = clampCursor(m.cursor, len(m.snap.Tasks))
	return tea.Batch(cmds...)
}

func (m *tuiModel) show(n Notice, d time.Duration) tea.Cmd {
	m.notice = n
	return m.start(effectToast, d)
}

func (m *tuiModel) start(e effect, d time.Duration) tea.Cmd {
	m.seq[e]++
	m.active[e] = true
	seq := m.seq[e]
	return tea.Tick(d, func(time.Time) tea.Msg {
		return expireMsg{effect: e, seq: seq}
	})
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.mode)
		return b.String()
	}

	m.writeProgress(&b)
	m.writeTabs(&b)
	m.writeTasks(&b)

	if c, ok := m.store.Pending(); ok {
		b.WriteString(modalStyle.Render(c.Description+"\n\n"+faintStyle.Render("y/enter confirm · n/esc cancel")) + "\n")
	} else {
		m.writeInput(&b)
	}

	if m.active[effectToast] {
		b.WriteString(noticeStyles[m.notice.Kind].Render(m.notice.Text))
	}
	b.WriteString("\n")
	writeFooter(&b, m.mode)
	return b.String()
}

func writeTitle(b *strings.Builder) {
	b.WriteString(titleStyle.Render("Task Manager") + "\n\n")
}

func (m *tuiModel) writeProgress(b *strings.Builder) {
	st := m.snap.Stats
	celebrating := m.active[effectCelebrate]
	fmt.Fprintf(b, "%s %3d%%\n", progressBar(st.Progress, celebrating), st.Progress)
	fmt.Fprintf(b, "%s %d  %s %d  %s %d\n\n",
		faintStyle.Render("Total"), st.Total,
		faintStyle.Render("Completed"), st.Completed,
		faintStyle.Render("Active"), st.Active)
}

func (m *tuiModel) writeTabs(b *strings.Builder) {
	tabs := make([]string, 0, 3)
	for i, f := range task.Filters() {
		label := fmt.Sprintf("%d %s", i+1, task.Label(f))
		if f == m.snap.Filter {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")
}

func (m *tuiModel) writeTasks(b *strings.Builder) {
	if len(m.snap.Tasks) == 0 {
		title, hint := EmptyState(m.snap.Filter)
		b.WriteString("  " + title + "\n")
		b.WriteString("  " + faintStyle.Render(hint) + "\n\n")
		return
	}
	for i, t := range m.snap.Tasks {
		b.WriteString(m.formatTask(t, i == m.cursor) + "\n")
	}
	b.WriteString("\n")
}

func (m *tuiModel) formatTask(t task.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}
	check := "[ ]"
	text := t.Text
	if t.Completed {
		check = "[x]"
		text = doneTextStyle.Render(text)
	}
	if m.mode == modeEdit && t.ID == m.editID {
		text = m.input.View()
	}
	if m.active[effectPulse] && t.ID == m.pulseID {
		check = pulseStyle.Render(check)
	}
	return fmt.Sprintf("%s%s %s  %s", pointer, check, text, priorityBadge(t.Priority))
}

func (m *tuiModel) writeInput(b *strings.Builder) {
	style := inputStyle
	if m.active[effectShake] {
		style = shakeStyle
	}
	field := faintStyle.Render("press a to add a task")
	if m.mode == modeInput {
		field = m.input.View()
	}
	b.WriteString(style.Render(field+"  "+priorityBadge(m.priority)) + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  a, i         Add a task (enter submits, esc leaves)\n")
	b.WriteString("  tab          Cycle the new task's priority\n")
	b.WriteString("  j/k, arrows  Move\n")
	b.WriteString("  space, x     Toggle completed\n")
	b.WriteString("  e            Edit (enter saves, esc cancels)\n")
	b.WriteString("  d            Delete\n")
	b.WriteString("  1, 2, 3      Show all, active, completed\n")
	b.WriteString("  f            Cycle filter\n")
	b.WriteString("  c            Clear completed\n")
	b.WriteString("  C            Clear all\n")
	b.WriteString("  ?, h         Toggle this help screen\n")
	b.WriteString("  q, ctrl+c    Quit\n\n")
}

func writeFooter(b *strings.Builder, md mode) {
	switch md {
	case modeInput:
		b.WriteString(faintStyle.Render("enter add · tab priority · esc done") + "\n")
	case modeEdit:
		b.WriteString(faintStyle.Render("enter save · esc cancel") + "\n")
	default:
		b.WriteString(faintStyle.Render("a add · space toggle · e edit · d delete · f filter · c/C clear · ? help · q quit") + "\n")
	}
}
