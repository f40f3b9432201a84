package styles

import "github.com/charmbracelet/lipgloss"

var (
	Gray    = lipgloss.Color("#8A8F98")
	DimGray = lipgloss.Color("#3D4250")
	Green   = lipgloss.Color("#39FF14")
	Orange  = lipgloss.Color("#FFA500")
	Red     = lipgloss.Color("#FF3131")
	Cyan    = lipgloss.Color("#00F0FF")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	Subtitle = lipgloss.NewStyle().
			Foreground(Cyan)

	Selected = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	Dimmed = lipgloss.NewStyle().
		Foreground(Gray)

	Success = lipgloss.NewStyle().
		Foreground(Green).
		Bold(true)

	Warn = lipgloss.NewStyle().
		Foreground(Orange).
		Bold(true)

	Err = lipgloss.NewStyle().
		Foreground(Red).
		Bold(true)

	Help = lipgloss.NewStyle().
		Foreground(DimGray).
		Italic(true)

	Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Cyan).
		Padding(1, 2)
)
