package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tejashwikalptaru/subtune/internal/service"
)

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Select     key.Binding
	Back       key.Binding
	Quit       key.Binding
	Search     key.Binding
	AddToQueue key.Binding
	PlayNext   key.Binding
	Remove     key.Binding
	ClearQueue key.Binding
	StartQueue key.Binding
	Pause      key.Binding
	Stop       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	CopyURL    key.Binding
	Help       key.Binding
	ForceQuit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Select:     key.NewBinding(key.WithKeys("right", "l", "enter"), key.WithHelp("→/l/enter", "open / play")),
		Back:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "back")),
		Quit:       key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q/esc", "back / quit")),
		Search:     key.NewBinding(key.WithKeys("/", "i"), key.WithHelp("/", "search")),
		AddToQueue: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to queue")),
		PlayNext:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "play next in queue")),
		Remove:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "remove queue head")),
		ClearQueue: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear queue")),
		StartQueue: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "restart queue")),
		Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause / resume")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "volume down")),
		CopyURL:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy stream url")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		ForceQuit:  key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// action maps a key in browse mode to a session action.
func (k keyMap) action(msg tea.KeyMsg) service.Action {
	switch {
	case key.Matches(msg, k.Up):
		return service.ActionMoveUp
	case key.Matches(msg, k.Down):
		return service.ActionMoveDown
	case key.Matches(msg, k.Top):
		return service.ActionMoveTop
	case key.Matches(msg, k.Bottom):
		return service.ActionMoveBottom
	case key.Matches(msg, k.Select):
		return service.ActionSelect
	case key.Matches(msg, k.Back):
		return service.ActionBack
	case key.Matches(msg, k.Quit):
		return service.ActionQuit
	case key.Matches(msg, k.Search):
		return service.ActionBeginSearch
	case key.Matches(msg, k.AddToQueue):
		return service.ActionAddToQueue
	case key.Matches(msg, k.PlayNext):
		return service.ActionPlayNext
	case key.Matches(msg, k.Remove):
		return service.ActionRemoveFromQueue
	case key.Matches(msg, k.ClearQueue):
		return service.ActionClearQueue
	case key.Matches(msg, k.StartQueue):
		return service.ActionRestartQueue
	case key.Matches(msg, k.Pause):
		return service.ActionTogglePause
	case key.Matches(msg, k.Stop):
		return service.ActionStop
	case key.Matches(msg, k.VolumeUp):
		return service.ActionVolumeUp
	case key.Matches(msg, k.VolumeDown):
		return service.ActionVolumeDown
	case key.Matches(msg, k.CopyURL):
		return service.ActionCopyStreamURL
	case key.Matches(msg, k.Help):
		return service.ActionToggleHelp
	default:
		return service.ActionNone
	}
}

// helpAction maps a key while the help overlay is open.
func (k keyMap) helpAction(msg tea.KeyMsg) service.Action {
	if key.Matches(msg, k.Help, k.Quit) {
		return service.ActionToggleHelp
	}
	return service.ActionNone
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Top, k.Bottom, k.Select, k.Back, k.Quit, k.Search},
		{k.AddToQueue, k.PlayNext, k.Remove, k.ClearQueue, k.StartQueue},
		{k.Pause, k.Stop, k.VolumeUp, k.VolumeDown, k.CopyURL, k.Help},
	}
}
