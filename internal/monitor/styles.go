package monitor

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/lutronctl/internal/version"
)

// AppName is shown in the dashboard title.
const AppName = "LUTRON MONITOR"

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 120
	nameColumnWidth  = 24
	levelBarWidth    = 30
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
	BorderColor    = lipgloss.Color("#7D56F4") // Purple (same as primary)
	HighlightColor = lipgloss.Color("#43BF6D") // Green (same as secondary)
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0, 0, 2)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true).
			PaddingLeft(2)

	RowStyle = lipgloss.NewStyle().
			PaddingLeft(4).
			Foreground(TextColor)

	SelectedRowStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(HighlightColor).
				Bold(true)

	MutedStyle = lipgloss.NewStyle().Foreground(SubtleColor)

	ConnectedStyle    = lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true)
	DisconnectedStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	FailedStyle       = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)

	ErrorLineStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0, 0, 2)

	SpinnerStyle = lipgloss.NewStyle().Foreground(PrimaryColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1).
			MarginLeft(2)
)
