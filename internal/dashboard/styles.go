package dashboard

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// WarnStyle for recoverable warnings.
	WarnStyle = lipgloss.NewStyle().Italic(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)
)

// FormatPercent formats a fractional value as a signed percentage with a
// direction indicator.
func FormatPercent(fraction float64) string {
	pct := fraction * 100.0

	switch {
	case pct > 0:
		return fmt.Sprintf("%.1f%% ▲", pct)
	case pct < 0:
		return fmt.Sprintf("%.1f%% ▼", pct)
	default:
		return "0.0%"
	}
}
