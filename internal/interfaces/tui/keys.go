package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings of the dashboard. Panel keys apply when no
// form is open; form keys apply while one is.
type KeyMap struct {
	Start          key.Binding
	Stop           key.Binding
	AddVendor      key.Binding
	AddCustomer    key.Binding
	RemoveVendor   key.Binding
	RemoveCustomer key.Binding
	Quit           key.Binding

	NextField    key.Binding
	PrevField    key.Binding
	Submit       key.Binding
	StartDefault key.Binding // Only in the start form.
	Cancel       key.Binding

	ForceQuit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	AddVendor: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "add vendor"),
	),
	AddCustomer: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "add customer"),
	),
	RemoveVendor: key.NewBinding(
		key.WithKeys("V"),
		key.WithHelp("V", "remove vendor"),
	),
	RemoveCustomer: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "remove customer"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("Tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("S-Tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "submit"),
	),
	StartDefault: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "start with default"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("Esc", "cancel"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}

// ShortHelp implements help.KeyMap with the panel bindings.
func (keys KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Start, keys.Stop, keys.AddVendor, keys.AddCustomer,
		keys.RemoveVendor, keys.RemoveCustomer, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{keys.ShortHelp(), keys.formBindings(true)}
}

func (keys KeyMap) formBindings(withDefault bool) []key.Binding {
	bindings := []key.Binding{keys.NextField, keys.PrevField, keys.Submit}
	if withDefault {
		bindings = append(bindings, keys.StartDefault)
	}
	return append(bindings, keys.Cancel)
}

// formHelp shows the bindings that apply inside an open form.
type formHelp struct {
	keys        KeyMap
	withDefault bool
}

func (h formHelp) ShortHelp() []key.Binding {
	return h.keys.formBindings(h.withDefault)
}

func (h formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
