// Package ports define interfaces for dependency inversion.
// These interfaces allow the core business logic to remain independent of external frameworks.
package ports

import (
	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// AudioSink is the interface for audio decode and output.
// This abstracts the underlying audio library (beep) and allows for testing with mocks.
//
// A sink holds at most one track. Play replaces whatever was playing.
//
// Implementations must be thread-safe as they may be called from multiple goroutines.
type AudioSink interface {
	// Play decodes the encoded audio in data and starts playing it from the beginning.
	// Any previously playing audio is discarded.
	//
	// Returns an error if the data cannot be decoded or the output device fails.
	Play(data []byte) error

	// Stop halts playback and clears any buffered audio.
	Stop()

	// TogglePause resumes paused playback, or pauses active playback.
	// Does nothing if the sink is empty.
	TogglePause()

	// IsPaused returns true if playback is paused.
	IsPaused() bool

	// IsFinished returns true if the sink has nothing left to play.
	IsFinished() bool

	// SetVolume sets the output volume (0.0 to 1.0).
	SetVolume(volume float64)

	// Volume returns the current output volume (0.0 to 1.0).
	Volume() float64

	// Close releases the output device.
	Close() error
}

// MetadataReader extracts tags embedded in an encoded audio stream.
type MetadataReader interface {
	// ReadTags returns whatever tags the stream carries.
	// Returns an error if the stream has no recognizable tag block.
	ReadTags(data []byte) (domain.TrackTags, error)
}
