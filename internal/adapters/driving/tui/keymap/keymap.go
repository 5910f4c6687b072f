// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings of the review screen.
type KeyMap struct {
	// Quit exits without approving.
	Quit key.Binding

	// Up moves the cursor up.
	Up key.Binding

	// Down moves the cursor down.
	Down key.Binding

	// Toggle selects or deselects the document under the cursor.
	Toggle key.Binding

	// ToggleAll selects every classified document, or none if all are selected.
	ToggleAll key.Binding

	// Reclassify runs classification again for the document under the cursor.
	Reclassify key.Binding

	// Approve submits the selected documents.
	Approve key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "select"),
		),
		ToggleAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "all"),
		),
		Reclassify: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reclassify"),
		),
		Approve: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "approve"),
		),
	}
}

// ClassifyingHelp returns the bindings usable while classification runs.
func (k *KeyMap) ClassifyingHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// ReviewHelp returns the bindings of the review list.
func (k *KeyMap) ReviewHelp() []key.Binding {
	return []key.Binding{k.Up, k.Toggle, k.ToggleAll, k.Reclassify, k.Approve, k.Quit}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
