package plot

import "github.com/charmbracelet/lipgloss"

var (
	ColorTrace0  = lipgloss.Color("#00FF41")
	ColorTrace1  = lipgloss.Color("#FFAA00")
	ColorOverlap = lipgloss.Color("#FFFFFF")
	ColorAxis    = lipgloss.Color("#008F11")
	ColorDim     = lipgloss.Color("#004A0A")
	ColorError   = lipgloss.Color("#FF3300")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorTrace0).
			Bold(true).
			Padding(0, 1)

	StyleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("#002200")).
			Foreground(ColorAxis).
			Padding(0, 1)

	StyleTrace0  = lipgloss.NewStyle().Foreground(ColorTrace0)
	StyleTrace1  = lipgloss.NewStyle().Foreground(ColorTrace1)
	StyleOverlap = lipgloss.NewStyle().Foreground(ColorOverlap).Bold(true)
	StyleAxis    = lipgloss.NewStyle().Foreground(ColorAxis)
	StyleHelp    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)

	StyleChart = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAxis)
)
