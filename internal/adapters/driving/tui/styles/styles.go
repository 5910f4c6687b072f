// Package styles holds the lipgloss styles used to render a batch.
package styles

import "github.com/charmbracelet/lipgloss"

// Palette names colours by what they signal in the result list.
type Palette struct {
	Accent lipgloss.Color // titles, selection
	Info   lipgloss.Color // object type badges, counts
	Text   lipgloss.Color
	Dim    lipgloss.Color // pending rows, hints
	Bar    lipgloss.Color // status bar background

	Confident lipgloss.Color
	Review    lipgloss.Color
	Failed    lipgloss.Color
}

// DefaultPalette is tuned for dark terminals.
func DefaultPalette() Palette {
	return Palette{
		Accent:    "#7C3AED",
		Info:      "#06B6D4",
		Text:      "#CDD6F4",
		Dim:       "#6C7086",
		Bar:       "#181825",
		Confident: "#A6E3A1",
		Review:    "#F9E2AF",
		Failed:    "#F38BA8",
	}
}

// Styles are built once per program from a Palette.
type Styles struct {
	palette Palette

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Normal    lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Badge     lipgloss.Style
	StatusBar lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// New builds styles from p.
func New(p Palette) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	return &Styles{
		palette:   p,
		Title:     fg(p.Accent).Bold(true),
		Subtitle:  fg(p.Info).Bold(true),
		Normal:    fg(p.Text),
		Muted:     fg(p.Dim),
		Selected:  fg(p.Text).Background(p.Accent).Bold(true),
		Badge:     fg(p.Info).Padding(0, 1),
		StatusBar: fg(p.Dim).Background(p.Bar).Padding(0, 1),
		Success:   fg(p.Confident),
		Warning:   fg(p.Review),
		Error:     fg(p.Failed),
	}
}

// DefaultStyles returns New(DefaultPalette()).
func DefaultStyles() *Styles {
	return New(DefaultPalette())
}

// Palette returns the colours the styles were built from.
func (s *Styles) Palette() Palette {
	return s.palette
}

// Confidence picks the colour for a score: the review colour when the
// result was flagged, the confident colour otherwise.
func (s *Styles) Confidence(needsReview bool) lipgloss.Style {
	if needsReview {
		return s.Warning
	}
	return s.Success
}
