package progress

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/velstream/recurly-export-cli/internal/application"
)

// DoneMsg ends the progress display. Err carries the export failure, if any.
type DoneMsg struct {
	Err error
}

// TickMsg updates the extraction counters.
type TickMsg application.Progress

// Model renders a single-line extraction progress display: extracted count,
// elapsed time, and rate, with the last extracted email echoed underneath in
// verbose mode.
type Model struct {
	spinner   spinner.Model
	styles    styles
	run       tea.Cmd
	verbose   bool
	extracted int64
	email     string
	elapsed   time.Duration
	done      bool
	err       error
}

func NewModel(run tea.Cmd, verbose bool) Model {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return Model{
		spinner: s,
		styles:  newStyles(),
		run:     run,
		verbose: verbose,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case TickMsg:
		m.extracted = msg.Extracted
		m.email = msg.Email
		m.elapsed = msg.Elapsed
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.done {
		return ""
	}

	line := fmt.Sprintf("%s Extracted: %s | Elapsed: %s | Rate: %s",
		m.spinner.View(),
		m.styles.count.Render(fmt.Sprintf("%d", m.extracted)),
		m.styles.count.Render(formatElapsed(m.elapsed)),
		m.styles.count.Render(m.rate()),
	)

	if m.verbose && m.email != "" {
		line += "\n" + m.styles.email.Render("  "+m.email)
	}

	return line
}

func (m Model) Err() error {
	return m.err
}

func (m Model) rate() string {
	seconds := m.elapsed.Seconds()
	if seconds <= 0 || m.extracted == 0 {
		return "--/s"
	}

	return fmt.Sprintf("%.1f/s", float64(m.extracted)/seconds)
}

func formatElapsed(elapsed time.Duration) string {
	return elapsed.Truncate(time.Second).String()
}
