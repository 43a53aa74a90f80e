package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	left   key.Binding
	right  key.Binding
	up     key.Binding
	down   key.Binding
	pickUp key.Binding
	drop   key.Binding
	cancel key.Binding
	addCol key.Binding
	addRow key.Binding
	jump   key.Binding
	help   key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		pickUp: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pick up"),
		),
		drop: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "drop"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		addCol: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add container"),
		),
		addRow: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "add item"),
		),
		jump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump"),
		),
		help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.pickUp, k.drop, k.cancel, k.addCol, k.addRow, k.jump, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.left, k.right, k.up, k.down},
		{k.pickUp, k.drop, k.cancel},
		{k.addCol, k.addRow, k.jump},
		{k.help, k.quit},
	}
}

// dragKeys narrows the help line while a gesture is active.
func (k keyMap) dragKeys() []key.Binding {
	return []key.Binding{k.left, k.right, k.up, k.down, k.drop, k.cancel}
}
