package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

// Reading is one row of the watch table.
type Reading struct {
	Chip    string
	Label   string
	Value   string
	Type    string
	Ignored bool
}

// RefreshFunc samples all readings for one watch refresh.
type RefreshFunc func() ([]Reading, error)

type tickMsg time.Time

type readingsMsg struct {
	rows []Reading
	err  error
}

// WatchModel is the bubbletea model behind the live readings view.
type WatchModel struct {
	table    table.Model
	refresh  RefreshFunc
	interval time.Duration
	err      error
	width    int
}

// NewWatchModel builds the watch view. interval is the sampling
// period.
func NewWatchModel(refresh RefreshFunc, interval time.Duration) WatchModel {
	columns := []table.Column{
		{Title: "Chip", Width: 22},
		{Title: "Feature", Width: 24},
		{Title: "Value", Width: 12},
		{Title: "Type", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(PrimaryColor)
	s.Selected = s.Selected.Foreground(TextColor).Background(PrimaryColor)
	t.SetStyles(s)

	return WatchModel{
		table:    t,
		refresh:  refresh,
		interval: interval,
		width:    TerminalWidth(),
	}
}

// Init starts the first sample immediately and schedules the ticker.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.sample(), m.tick())
}

func (m WatchModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m WatchModel) sample() tea.Cmd {
	refresh := m.refresh
	return func() tea.Msg {
		rows, err := refresh()
		return readingsMsg{rows: rows, err: err}
	}
}

// Update handles tick, readings and key messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetHeight(msg.Height - 5)

	case tickMsg:
		return m, tea.Batch(m.sample(), m.tick())

	case readingsMsg:
		m.err = msg.err
		rows := make([]table.Row, 0, len(msg.rows))
		for _, r := range msg.rows {
			if r.Ignored {
				continue
			}
			rows = append(rows, table.Row{r.Chip, r.Label, r.Value, r.Type})
		}
		m.table.SetRows(rows)
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table with header and footer.
func (m WatchModel) View() string {
	out := TitleStyle.Render("hwsense watch") + "\n"
	out += TableBorderStyle.Render(m.table.View()) + "\n"
	if m.err != nil {
		out += ErrStyle.Render(fmt.Sprintf("refresh error: %v", m.err)) + "\n"
	}
	out += HelpStyle.Render(fmt.Sprintf("refreshing every %s  •  q to quit", m.interval))
	return out
}

// RunWatch starts the watch view and blocks until the user quits.
func RunWatch(refresh RefreshFunc, interval time.Duration) error {
	if !IsTerminal() {
		return fmt.Errorf("watch requires an interactive terminal")
	}
	model := NewWatchModel(refresh, interval)
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
