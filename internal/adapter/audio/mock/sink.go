// Package mock provides a mock implementation of the AudioSink interface.
// This is used for testing services and for running without an audio device.
package mock

import (
	"log/slog"
	"sync"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// Sink is a mock implementation of the AudioSink interface.
// It records what it was asked to play without producing any sound.
// Tracks never end on their own; tests call SimulateFinish.
//
// Thread-safety: This implementation is thread-safe.
type Sink struct {
	logger *slog.Logger
	mu     sync.RWMutex

	loaded bool
	paused bool
	volume float64

	played    [][]byte
	stopCount int
	closed    bool

	// Behavior configuration (for testing error scenarios)
	failPlay bool
}

// NewSink creates a new empty mock sink at full volume.
func NewSink() *Sink {
	return &Sink{volume: 1.0}
}

// SetLogger sets the logger for this sink.
func (m *Sink) SetLogger(logger *slog.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}

// SetFailPlay configures the mock to reject audio (for testing).
func (m *Sink) SetFailPlay(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPlay = fail
}

// Play records data and marks the sink as playing.
func (m *Sink) Play(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return domain.ErrNotInitialized
	}
	if m.failPlay {
		return domain.NewAudioEngineError("play", "mock play failed", nil)
	}
	if len(data) == 0 {
		return domain.NewAudioEngineError("decode", "empty stream", domain.ErrUnsupportedFormat)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	m.played = append(m.played, buf)
	m.loaded = true
	m.paused = false

	if m.logger != nil {
		m.logger.Debug("mock sink playing", slog.Int("bytes", len(data)))
	}
	return nil
}

// Stop empties the sink.
func (m *Sink) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = false
	m.paused = false
	m.stopCount++
}

// TogglePause resumes if paused, otherwise pauses a loaded sink.
func (m *Sink) TogglePause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.paused {
		m.paused = false
		return
	}
	if m.loaded {
		m.paused = true
	}
}

// IsPaused returns true if playback is paused.
func (m *Sink) IsPaused() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paused
}

// IsFinished returns true if nothing is loaded.
func (m *Sink) IsFinished() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return !m.loaded
}

// SetVolume stores the volume clamped to [0, 1].
func (m *Sink) SetVolume(volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = min(max(volume, 0), 1)
}

// Volume returns the stored volume.
func (m *Sink) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// Close marks the sink closed. Further Play calls fail.
func (m *Sink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.loaded = false
	return nil
}

// SimulateFinish makes the current track end as if it played to completion.
func (m *Sink) SimulateFinish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = false
	m.paused = false
}

// Played returns every buffer handed to Play, oldest first.
func (m *Sink) Played() [][]byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]byte, len(m.played))
	copy(out, m.played)
	return out
}

// LastPlayed returns the most recent buffer, or nil.
func (m *Sink) LastPlayed() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.played) == 0 {
		return nil
	}
	return m.played[len(m.played)-1]
}

// StopCount returns how many times Stop was called.
func (m *Sink) StopCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stopCount
}

var _ ports.AudioSink = (*Sink)(nil)
