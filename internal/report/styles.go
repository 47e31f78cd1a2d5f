package report

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent  = lipgloss.Color("#8BC34A") // Lime Green
	Muted   = lipgloss.Color("#6B7280")
	Warning = lipgloss.Color("#FFC107") // Yellow
	Info    = lipgloss.Color("#2196F3") // Blue
)

// Theme holds the styles used by Render. The zero Theme renders plain text.
type Theme struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Warn    lipgloss.Style
	Result  lipgloss.Style
}

// PlainTheme returns a theme without any styling.
func PlainTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Title:   plain,
		Section: plain,
		Label:   plain,
		Value:   plain,
		Muted:   plain,
		Warn:    plain,
		Result:  plain,
	}
}

// ColorTheme returns the default terminal theme.
func ColorTheme() Theme {
	return Theme{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Info),
		Section: lipgloss.NewStyle().Bold(true).Underline(true),
		Label:   lipgloss.NewStyle().Foreground(Muted),
		Value:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Warn:    lipgloss.NewStyle().Foreground(Warning),
		Result:  lipgloss.NewStyle().Bold(true).Foreground(Accent),
	}
}
