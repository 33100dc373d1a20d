// Package tui provides the primary terminal user interface implementation.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/reeler-cli/reeler/color"
	"github.com/reeler-cli/reeler/style"
)

// statefulKeymap defines the keyboard interactions available within various application states.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm,
	back,
	acceptSearchSuggestion,
	remove,
	playPause,
	seekForward, seekBack,
	bigSeekForward, bigSeekBack,
	cycleMode,
	quality,
	reset key.Binding
}

// setState updates the active keymap configuration to match the specified application state.
func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("play")),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept search suggestion"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "play/pause"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+10s"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-10s"),
		),
		bigSeekForward: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("shift+→", "+90s"),
		),
		bigSeekBack: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("shift+←", "-90s"),
		),
		cycleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mode"),
		),
		quality: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "quality"),
		),
		reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
	}
}

// ShortHelp implements the help.KeyMap interface for the compact help bar.
func (k *statefulKeymap) ShortHelp() []key.Binding {
	return k.help()
}

// FullHelp implements the help.KeyMap interface for the expanded help view.
func (k *statefulKeymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.help()}
}

// help returns the contextual key bindings for the active state.
func (k *statefulKeymap) help() []key.Binding {
	switch k.state {
	case searchState:
		return []key.Binding{k.confirm, k.acceptSearchSuggestion, k.forceQuit}
	case itemsState:
		return []key.Binding{k.confirm, k.back, k.quit}
	case historyState:
		return []key.Binding{k.confirm, k.remove, k.back, k.quit}
	case playState:
		return []key.Binding{k.playPause, k.seekBack, k.seekForward, k.cycleMode, k.quality, k.back, k.quit}
	case qualityState:
		return []key.Binding{k.confirm, k.back}
	case errorState:
		return []key.Binding{k.back, k.quit}
	default:
		return []key.Binding{k.forceQuit}
	}
}
