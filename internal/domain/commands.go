package domain

import "time"

// CommandKind identifies a remote playback command.
type CommandKind int

const (
	CommandPlay CommandKind = iota
	CommandPause
	CommandPlayPause
	CommandStop
	CommandNext
	CommandPrevious
	CommandSetVolume
	CommandSeek
	CommandSetPosition
)

func (k CommandKind) String() string {
	switch k {
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandPlayPause:
		return "play_pause"
	case CommandStop:
		return "stop"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandSetVolume:
		return "set_volume"
	case CommandSeek:
		return "seek"
	case CommandSetPosition:
		return "set_position"
	default:
		return "unknown"
	}
}

// RemoteCommand is a playback command delivered by a desktop media controller.
type RemoteCommand struct {
	Kind CommandKind

	// Volume is set for CommandSetVolume
	Volume float64

	// Offset is set for CommandSeek and CommandSetPosition
	Offset time.Duration
}
