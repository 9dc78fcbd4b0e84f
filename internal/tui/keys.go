package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the task view.
type KeyMap struct {
	Up   key.Binding
	Down key.Binding

	// View switching.
	NextView      key.Binding
	ViewActive    key.Binding
	ViewCompleted key.Binding

	// Mutations.
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding

	Quit key.Binding
}

// FormKeyMap defines the key bindings of the creation form.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	NextView: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch view"),
	),
	ViewActive: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "active"),
	),
	ViewCompleted: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "completed"),
	),
	Add: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add"),
	),
	Toggle: key.NewBinding(
		key.WithKeys(" ", "x"),
		key.WithHelp("space", "toggle"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// DefaultFormKeyMap is the built-in form key binding set.
var DefaultFormKeyMap = FormKeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "save"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextView, k.Add, k.Toggle, k.Delete, k.Quit}
}

// ShortHelp returns the bindings shown under the form.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.Cancel}
}
