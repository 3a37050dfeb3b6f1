package styles

import "github.com/charmbracelet/lipgloss"

// Color constants used throughout the UI
var (
	// Primary colors
	Accent    = lipgloss.Color("114") // Herb green - primary accent
	AccentAlt = lipgloss.Color("150") // Soft green - secondary accent
	Success   = lipgloss.Color("118") // Green - success states
	Warning   = lipgloss.Color("214") // Orange - warnings, confirmations
	Error     = lipgloss.Color("196") // Red - errors, deletions
	Info      = lipgloss.Color("75")  // Blue - informational

	// Neutral colors
	TextNormal   = lipgloss.Color("252") // Light gray - normal text
	TextMuted    = lipgloss.Color("250") // Lighter gray - descriptions
	TextFaint    = lipgloss.Color("244") // Gray - faint/disabled text
	TextOnAccent = lipgloss.Color("0")   // Black - text on accent background

	// Border colors
	BorderActive   = lipgloss.Color("114") // Green - active borders
	BorderInactive = lipgloss.Color("240") // Dark gray - inactive borders

	// Record status colors
	BadgeActive   = lipgloss.Color("118") // Green - visible records
	BadgeInactive = lipgloss.Color("244") // Gray - hidden records
)

// Common style components
var (
	// Headers and titles
	Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)

	SectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentAlt)

	// Text styles
	Normal = lipgloss.NewStyle().
		Foreground(TextNormal)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	Faint = lipgloss.NewStyle().
		Faint(true)

	// Selection and highlighting
	Selected = lipgloss.NewStyle().
			Background(Accent).
			Foreground(TextOnAccent)

	// Status indicators
	StatusSuccess = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning)

	StatusError = lipgloss.NewStyle().
			Foreground(Error)

	// Keys in help text
	Key = lipgloss.NewStyle().
		Foreground(lipgloss.Color("226"))

	// Record visibility badges
	Active = lipgloss.NewStyle().
		Foreground(BadgeActive)

	Inactive = lipgloss.NewStyle().
			Foreground(BadgeInactive).
			Strikethrough(true)

	// Form field labels
	Label = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextMuted)

	LabelFocused = lipgloss.NewStyle().
			Bold(true).
			Foreground(Accent)

	// Required-field marker
	Required = lipgloss.NewStyle().
			Foreground(Error)
)

// Border styles for panes
func ActiveBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BorderActive)
}

func InactiveBorder() lipgloss.Style {
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(BorderInactive)
}
