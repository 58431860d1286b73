package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colors used for terminal output.
type Theme struct {
	Text    string
	Muted   string
	Faint   string
	Accent  string
	Success string
	Warning string
	Danger  string
	Border  string
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() Theme {
	return Theme{
		Text:    "#cdcecf",
		Muted:   "#738091",
		Faint:   "#4b5563",
		Accent:  "#719cd6",
		Success: "#81b29a",
		Warning: "#dbc074",
		Danger:  "#c94f6d",
		Border:  "#39506d",
	}
}

// Styles contains pre-built styles bound to one output renderer.
type Styles struct {
	Title       lipgloss.Style
	Text        lipgloss.Style
	MutedText   lipgloss.Style
	FaintText   lipgloss.Style
	AccentText  lipgloss.Style
	SuccessText lipgloss.Style
	WarningText lipgloss.Style
	DangerText  lipgloss.Style
	Card        lipgloss.Style
	Cell        lipgloss.Style
}

// Styles builds styles for output written to w. Color support is detected
// from w, so plain files and pipes get unstyled text.
func (t Theme) Styles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Title: r.NewStyle().
			Foreground(lipgloss.Color(t.Warning)).
			Bold(true),

		Text: r.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: r.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: r.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: r.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		SuccessText: r.NewStyle().
			Foreground(lipgloss.Color(t.Success)).
			Bold(true),

		WarningText: r.NewStyle().
			Foreground(lipgloss.Color(t.Warning)),

		DangerText: r.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)).
			Padding(0, 1),

		Cell: r.NewStyle().
			PaddingRight(2),
	}
}
