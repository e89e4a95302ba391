// Package domain contains core business models and logic with no external dependencies.
// This package defines the fundamental entities of the SubTune client.
package domain

import (
	"time"
)

// Track represents a single playable song as reported by the media server.
// Tracks are immutable values; empty strings and a zero duration mean "unknown".
type Track struct {
	// ID is the server-side song identifier
	ID string

	// Title is the song title
	Title string

	// AlbumID is the identifier of the album the song belongs to
	AlbumID string

	// Artist is the performing artist name
	Artist string

	// Album is the album name
	Album string

	// Duration is the total length of the track
	Duration time.Duration
}

// DisplayTitle returns the title, falling back to the ID for untitled songs.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return t.ID
}

// Artist is an entry of the server's artist index.
type Artist struct {
	ID   string
	Name string
}

// Album is an album belonging to an artist.
type Album struct {
	ID       string
	Name     string
	ArtistID string
}

// TrackTags holds metadata read from the audio stream itself.
type TrackTags struct {
	Title  string
	Artist string
	Album  string
	Format string
}

// PlaybackStatus represents the current playback state.
type PlaybackStatus int

const (
	// StatusStopped indicates nothing is playing
	StatusStopped PlaybackStatus = iota

	// StatusPlaying indicates playback is active
	StatusPlaying

	// StatusPaused indicates playback is paused
	StatusPaused
)

// String returns a human-readable representation of the playback status.
func (s PlaybackStatus) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ViewType identifies which list the browser is showing.
type ViewType int

const (
	ViewArtists ViewType = iota
	ViewAlbums
	ViewSongs
	ViewSearch
)

func (v ViewType) String() string {
	switch v {
	case ViewArtists:
		return "artists"
	case ViewAlbums:
		return "albums"
	case ViewSongs:
		return "songs"
	case ViewSearch:
		return "search"
	default:
		return "unknown"
	}
}

// StatusMessage is a transient line of feedback shown in the status bar.
type StatusMessage struct {
	Text     string
	Deadline time.Time
}

// NewStatusMessage creates a message that expires timeout after now.
func NewStatusMessage(text string, now time.Time, timeout time.Duration) StatusMessage {
	return StatusMessage{Text: text, Deadline: now.Add(timeout)}
}

// Expired reports whether the message deadline has been reached.
func (m StatusMessage) Expired(now time.Time) bool {
	return !now.Before(m.Deadline)
}
