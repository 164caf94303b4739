package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Lip Gloss styles shared by the interactive and scripted clients.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true)
	SuccessStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	PendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	AccentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	MutedStyle    = lipgloss.NewStyle().Faint(true)
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	DoneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	HelpStyle     = lipgloss.NewStyle().Faint(true)
)

var PanelStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("8")).
	Padding(0, 1)

const (
	BoxChecked   = "☑"
	BoxUnchecked = "☐"
)

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, SuccessStyle.Render("✔ "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, ErrorStyle.Render("✖ "+msg)) }

// Panel draws the lines inside a rounded border.
func Panel(w io.Writer, lines []string) {
	fmt.Fprintln(w, PanelStyle.Render(strings.Join(lines, "\n")))
}

// Checkbox renders the box for a todo, highlighted when completed.
func Checkbox(completed bool) string {
	if completed {
		return SuccessStyle.Render(BoxChecked)
	}
	return MutedStyle.Render(BoxUnchecked)
}

// Title renders a todo title, struck through when completed.
func Title(title string, completed bool) string {
	if completed {
		return DoneStyle.Render(title)
	}
	return title
}

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}
