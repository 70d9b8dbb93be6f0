package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the watch view
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, stale readings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

var (
	// TitleStyle frames the watch header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// ChipStyle renders chip names in the readings table
	ChipStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// HelpStyle renders the key help footer
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// ErrStyle renders refresh errors
	ErrStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(1)

	// TableBorderStyle frames the readings table
	TableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(PrimaryColor)
)

// IsTerminal reports whether stdout is an interactive terminal. The
// watch view refuses to start when it is not.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalWidth returns the current terminal width, or a conservative
// default when it cannot be determined.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
