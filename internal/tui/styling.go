package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.ANSIColor(termenv.ANSIBrightWhite)).
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)

	LowCoverageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.ANSIColor(termenv.ANSIBrightRed))

	MediumCoverageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.ANSIColor(termenv.ANSIBrightYellow))

	HighCoverageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.ANSIColor(termenv.ANSIBrightGreen))

	FooterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			PaddingTop(1)
)

// Coverage bands used when colouring percentages.
const (
	MediumCoverageFloor = 50.0
	HighCoverageFloor   = 80.0
)

// CoverageStyle picks the colour band for a coverage percentage.
func CoverageStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= HighCoverageFloor:
		return HighCoverageStyle
	case percent >= MediumCoverageFloor:
		return MediumCoverageStyle
	default:
		return LowCoverageStyle
	}
}
