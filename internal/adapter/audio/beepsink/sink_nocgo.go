//go:build !((linux && cgo) || windows || darwin)

package beepsink

import (
	"log/slog"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires cgo for the native sound libraries on Linux.
const AudioAvailable = false

// Sink is a placeholder for builds without an audio backend.
// NewSink always fails, so none of its methods is reached in practice.
type Sink struct{}

// NewSink reports that audio output is unavailable.
func NewSink(_ *slog.Logger) (*Sink, error) {
	return nil, domain.NewAudioEngineError("init", "built without cgo", domain.ErrAudioUnavailable)
}

func (s *Sink) Play(data []byte) error {
	if _, _, err := decode(data); err != nil {
		return err
	}
	return domain.ErrAudioUnavailable
}

func (s *Sink) Stop()               {}
func (s *Sink) TogglePause()        {}
func (s *Sink) IsPaused() bool      { return false }
func (s *Sink) IsFinished() bool    { return true }
func (s *Sink) SetVolume(_ float64) {}
func (s *Sink) Volume() float64     { return 0 }
func (s *Sink) Close() error        { return nil }

var _ ports.AudioSink = (*Sink)(nil)
