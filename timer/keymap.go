package timer

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePlay key.Binding
	reset      key.Binding
	save       key.Binding
	switchMode key.Binding
	focus      key.Binding
	shortBreak key.Binding
	longBreak  key.Binding
	task       key.Binding
	enter      key.Binding
	esc        key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p", "play/pause"),
	),
	reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	switchMode: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "timer/stopwatch"),
	),
	focus: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "focus"),
	),
	shortBreak: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "short break"),
	),
	longBreak: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "long break"),
	),
	task: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "set task"),
	),
	enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "confirm"),
	),
	esc: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
