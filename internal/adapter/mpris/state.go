package mpris

import (
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// noTrack is the MPRIS track id for "nothing loaded".
const noTrack = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")

// State is the now-playing record exposed to desktop controllers.
//
// The session loop is the only writer. D-Bus property reads happen on the
// connection's dispatch goroutine, so all access goes through the RWMutex.
type State struct {
	mu     sync.RWMutex
	status domain.PlaybackStatus
	track  *domain.Track
	url    string
	volume float64
}

// NewState creates a stopped state at full volume.
func NewState() *State {
	return &State{status: domain.StatusStopped, volume: 1.0}
}

// SetTrack records the loaded track and its stream URL.
func (s *State) SetTrack(track domain.Track, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track = &track
	s.url = url
}

// ClearTrack forgets the loaded track, so Metadata reports NoTrack.
func (s *State) ClearTrack() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.track = nil
	s.url = ""
}

// SetStatus records the playback status.
func (s *State) SetStatus(status domain.PlaybackStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

// SetVolume records the volume.
func (s *State) SetVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volume = volume
}

// Status returns the MPRIS spelling of the playback status.
func (s *State) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return statusString(s.status)
}

// Volume returns the recorded volume.
func (s *State) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// Metadata returns the xesam/mpris metadata map for the loaded track.
func (s *State) Metadata() map[string]dbus.Variant {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta := map[string]dbus.Variant{}
	if s.track == nil {
		meta["mpris:trackid"] = dbus.MakeVariant(noTrack)
		return meta
	}

	t := s.track
	meta["mpris:trackid"] = dbus.MakeVariant(trackPath(t.ID))
	meta["xesam:title"] = dbus.MakeVariant(t.DisplayTitle())
	if t.Artist != "" {
		meta["xesam:artist"] = dbus.MakeVariant([]string{t.Artist})
	}
	if t.Album != "" {
		meta["xesam:album"] = dbus.MakeVariant(t.Album)
	}
	if t.Duration > 0 {
		meta["mpris:length"] = dbus.MakeVariant(t.Duration.Microseconds())
	}
	if s.url != "" {
		meta["xesam:url"] = dbus.MakeVariant(s.url)
	}
	return meta
}

func statusString(status domain.PlaybackStatus) string {
	switch status {
	case domain.StatusPlaying:
		return "Playing"
	case domain.StatusPaused:
		return "Paused"
	default:
		return "Stopped"
	}
}

// trackPath maps a server song id onto a valid D-Bus object path.
func trackPath(id string) dbus.ObjectPath {
	if id == "" {
		return noTrack
	}
	var b strings.Builder
	b.WriteString("/org/subtune/track/")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return dbus.ObjectPath(b.String())
}
