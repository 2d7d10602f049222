package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
	ColorBlue    = lipgloss.Color("#5F87FF")
	ColorOrange  = lipgloss.Color("#FFAF00")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	PanelTitleActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorGray).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	EstimateStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)

	TodayStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true).
			Reverse(true)

	DayNumberStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Bold(true)

	OverflowStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)
)

// speakerColors is the rotation used for transcript speaker labels.
var speakerColors = []lipgloss.Color{ColorCyan, ColorMagenta, ColorGreen, ColorOrange, ColorBlue, ColorYellow}

// SpeakerStyle returns a stable color for the i-th distinct speaker.
func SpeakerStyle(i int) lipgloss.Style {
	if i < 0 {
		i = -i
	}
	return lipgloss.NewStyle().Bold(true).Foreground(speakerColors[i%len(speakerColors)])
}
