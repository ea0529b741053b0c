package input

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyName string

func (k keyName) String() string { return string(k) }

type Map struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	ButtonA key.Binding
	ButtonB key.Binding
	ButtonC key.Binding
	Quit    key.Binding
}

var Default = Map{
	Up: key.NewBinding(
		key.WithKeys("w", "W", "up"),
		key.WithHelp("w/↑", "Up"),
	),
	Down: key.NewBinding(
		key.WithKeys("s", "S", "down"),
		key.WithHelp("s/↓", "Down"),
	),
	Left: key.NewBinding(
		key.WithKeys("a", "A", "left"),
		key.WithHelp("a/←", "Left"),
	),
	Right: key.NewBinding(
		key.WithKeys("d", "D", "right"),
		key.WithHelp("d/→", "Right"),
	),
	ButtonA: key.NewBinding(
		key.WithKeys("p", "P", "enter"),
		key.WithHelp("p/enter", "Confirm"),
	),
	ButtonB: key.NewBinding(
		key.WithKeys("l", "L", "backspace"),
		key.WithHelp("l/backspace", "Back"),
	),
	ButtonC: key.NewBinding(
		key.WithKeys("m", "M", " "),
		key.WithHelp("m/space", "Action"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "Q", "ctrl+c", "esc"),
		key.WithHelp("q", "Quit"),
	),
}

func (m Map) bindings() []struct {
	kind    Kind
	binding key.Binding
} {
	return []struct {
		kind    Kind
		binding key.Binding
	}{
		{Up, m.Up},
		{Down, m.Down},
		{Left, m.Left},
		{Right, m.Right},
		{ButtonA, m.ButtonA},
		{ButtonB, m.ButtonB},
		{ButtonC, m.ButtonC},
		{Quit, m.Quit},
	}
}

// Lookup translates a terminal key name, as reported by bubbletea, into a
// control kind.
func (m Map) Lookup(name string) (Kind, bool) {
	for _, entry := range m.bindings() {
		if key.Matches(keyName(name), entry.binding) {
			return entry.kind, true
		}
	}

	return 0, false
}

// Help renders a one line summary of the bindings, e.g. for startup logs.
func (m Map) Help() string {
	parts := make([]string, 0, len(Kinds()))
	for _, entry := range m.bindings() {
		help := entry.binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s", help.Key, help.Desc))
	}

	return strings.Join(parts, " · ")
}
