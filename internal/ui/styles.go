package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskboard/internal/task"
)

const progressWidth = 30

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	faintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	doneTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Strikethrough(true)
	pulseStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("250"))
	activeTabStyle = tabStyle.Background(lipgloss.Color("63")).Foreground(lipgloss.Color("255")).Bold(true)
	barFullStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))
	barEmptyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	celebrateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	inputStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	shakeStyle     = inputStyle.BorderForeground(lipgloss.Color("196"))
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("203")).Padding(1, 2)

	noticeStyles = map[NoticeKind]lipgloss.Style{
		NoticeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		NoticeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		NoticeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	priorityColors = map[task.Priority]lipgloss.Color{
		task.PriorityLow:    lipgloss.Color("42"),
		task.PriorityMedium: lipgloss.Color("214"),
		task.PriorityHigh:   lipgloss.Color("196"),
	}
)

func priorityBadge(p task.Priority) string {
	color, ok := priorityColors[p]
	if !ok {
		color = lipgloss.Color("111")
	}
	return lipgloss.NewStyle().Foreground(color).Render(string(p))
}

// progressBar renders percent as a fixed-width bar.
func progressBar(percent int, celebrating bool) string {
	percent = max(0, min(100, percent))
	filled := percent * progressWidth / 100
	full := barFullStyle
	if celebrating {
		full = celebrateStyle
	}
	return full.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", progressWidth-filled))
}
