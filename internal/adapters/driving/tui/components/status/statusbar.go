// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/keymap"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/messages"
	"github.com/drewgilbert-lab/content-automation-app/internal/adapters/driving/tui/styles"
)

// Bar displays batch counters and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	phase    messages.Phase
	message  string
	isError  bool
	selected int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		phase:  messages.PhaseClassifying,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// StatusBar pads one cell on each side.
	padding := s.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	if s.isError {
		return s.styles.Error.Render("Error: " + s.message)
	}
	if s.message != "" {
		return s.styles.Normal.Render(s.message)
	}

	switch s.phase {
	case messages.PhaseClassifying:
		return s.styles.Muted.Render("Classifying...")
	case messages.PhaseReviewing:
		return s.styles.Normal.Render(fmt.Sprintf("%d selected", s.selected))
	case messages.PhaseApproving:
		return s.styles.Muted.Render("Submitting...")
	case messages.PhaseDone:
		return s.styles.Success.Render("Done")
	}
	return ""
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.phase {
	case messages.PhaseReviewing:
		bindings = s.keymap.ReviewHelp()
	default:
		bindings = s.keymap.ClassifyingHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetPhase sets the current phase and clears any message.
func (s *Bar) SetPhase(phase messages.Phase) {
	s.phase = phase
	s.message = ""
	s.isError = false
}

// Phase returns the current phase.
func (s *Bar) Phase() messages.Phase {
	return s.phase
}

// SetMessage shows msg instead of the phase text.
func (s *Bar) SetMessage(msg string) {
	s.message = msg
	s.isError = false
}

// SetError shows msg as an error.
func (s *Bar) SetError(msg string) {
	s.message = msg
	s.isError = true
}

// SetSelected sets the selection count shown while reviewing.
func (s *Bar) SetSelected(n int) {
	s.selected = n
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}
