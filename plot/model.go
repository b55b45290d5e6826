package plot

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// shared holds state shared between the Bubble Tea model copies. Because
// Bubble Tea uses value receivers, pointer fields ensure all copies see the
// same underlying data.
type shared struct {
	trace0 *Ring
	trace1 *Ring
	filter Filter
}

// Model is the root Bubble Tea model of the plotter.
type Model struct {
	width  int
	height int

	source  string
	version string
	paused  bool
	bad     int
	last    Sample
	done    bool
	err     error

	shared *shared
}

// NewModel returns a plotter keeping history samples per trace.
func NewModel(source, version string, history int) Model {
	return Model{
		source:  source,
		version: version,
		shared: &shared{
			trace0: NewRing(history),
			trace1: NewRing(history),
		},
	}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SampleMsg:
		s := Sample(msg)
		if m.paused || !m.shared.filter.Accept(s) {
			return m, nil
		}
		m.shared.trace0.Push(s.D0)
		m.shared.trace1.Push(s.D1)
		m.last = s
		return m, nil

	case BadLineMsg:
		m.bad++
		return m, nil

	case SourceDoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit
	case "p", "P", " ":
		m.paused = !m.paused
	}
	return m, nil
}

// Err returns the error that ended the telemetry stream, if any.
func (m Model) Err() error { return m.err }

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Waiting for terminal size..."
	}

	title := StyleTitle.Width(m.width).Render(
		fmt.Sprintf("sonarplot %s  %s", m.version, m.source))

	chartW := m.width - 2
	chartH := m.height - 4
	if chartH < 2 {
		chartH = 2
	}
	chart := StyleChart.Render(Chart(
		m.shared.trace0.Values(), m.shared.trace1.Values(), chartW, chartH))

	return lipgloss.JoinVertical(lipgloss.Left, title, chart, m.statusBar())
}

func (m Model) statusBar() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("t=%dms ", m.last.TimeMs))
	b.WriteString(StyleTrace0.Render(fmt.Sprintf("d0=%dmm ", m.last.D0)))
	b.WriteString(StyleTrace1.Render(fmt.Sprintf("d1=%dmm ", m.last.D1)))
	b.WriteString(fmt.Sprintf(" outliers=%d stale=%d bad=%d",
		m.shared.filter.Outliers, m.shared.filter.Stale, m.bad))
	switch {
	case m.err != nil:
		b.WriteString("  " + StyleError.Render("source: "+m.err.Error()))
	case m.done:
		b.WriteString("  " + StyleError.Render("source closed"))
	case m.paused:
		b.WriteString("  [PAUSED]")
	}
	b.WriteString("  " + StyleHelp.Render("p pause  q quit"))
	return StyleStatusBar.Width(m.width).Render(b.String())
}
