package viewer

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines keybindings for the pager. Line and page scrolling come
// from the viewport's own bindings.
type KeyMap struct {
	Quit       key.Binding
	GoToTop    key.Binding
	GoToBottom key.Binding
	Copy       key.Binding
}

// DefaultKeyMap returns the default pager keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
		GoToTop: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "go to top"),
		),
		GoToBottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "go to bottom"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy source"),
		),
	}
}
