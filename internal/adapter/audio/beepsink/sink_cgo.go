//go:build (linux && cgo) || windows || darwin

package beepsink

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// AudioAvailable indicates whether audio playback is supported in this build.
const AudioAvailable = true

// Sink plays one decoded stream at a time through the system speaker.
type Sink struct {
	logger     *slog.Logger
	sampleRate beep.SampleRate

	mu       sync.Mutex
	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	vol      *effects.Volume
	volume   float64

	// generation identifies the stream handed to the speaker most recently.
	// The end-of-stream callback runs under the speaker lock, so it only
	// publishes its generation atomically and never takes mu.
	generation  uint64
	finishedGen atomic.Uint64
}

// NewSink opens the default output device at 44.1kHz.
func NewSink(logger *slog.Logger) (*Sink, error) {
	s := &Sink{
		logger:     logger,
		sampleRate: beep.SampleRate(44100),
		volume:     1.0,
	}
	if err := speaker.Init(s.sampleRate, s.sampleRate.N(time.Second/10)); err != nil {
		return nil, domain.NewAudioEngineError("init", "cannot open audio output", err)
	}
	logger.Debug("speaker initialized", slog.Int("sample_rate", int(s.sampleRate)))
	return s, nil
}

// Play decodes data and starts it from the beginning, replacing the current stream.
func (s *Sink) Play(data []byte) error {
	streamer, format, err := decode(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	s.streamer = streamer
	s.ctrl = &beep.Ctrl{Streamer: beep.Resample(4, format.SampleRate, s.sampleRate, streamer)}
	s.vol = &effects.Volume{
		Streamer: s.ctrl,
		Base:     2,
		Volume:   gain(s.volume),
		Silent:   s.volume <= 0,
	}
	s.generation++
	gen := s.generation

	speaker.Play(beep.Seq(s.vol, beep.Callback(func() {
		s.finishedGen.Store(gen)
	})))

	s.logger.Debug("stream started",
		slog.Int("bytes", len(data)),
		slog.Int("source_rate", int(format.SampleRate)),
		slog.Int("channels", format.NumChannels))
	return nil
}

// Stop halts playback and drops the current stream.
func (s *Sink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

// stopLocked must be called with mu held.
func (s *Sink) stopLocked() {
	speaker.Clear()
	if s.streamer != nil {
		if err := s.streamer.Close(); err != nil {
			s.logger.Warn("failed to close stream", slog.Any("error", err))
		}
	}
	s.streamer = nil
	s.ctrl = nil
	s.vol = nil
	s.finishedGen.Store(s.generation)
}

// TogglePause resumes a paused stream or pauses a playing one.
func (s *Sink) TogglePause() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil {
		return
	}
	finished := s.finishedLocked()

	speaker.Lock()
	defer speaker.Unlock()
	if s.ctrl.Paused {
		s.ctrl.Paused = false
	} else if !finished {
		s.ctrl.Paused = true
	}
}

// IsPaused returns whether playback is paused.
func (s *Sink) IsPaused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl == nil {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return s.ctrl.Paused
}

// IsFinished returns true when no stream is loaded or the stream has ended.
func (s *Sink) IsFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finishedLocked()
}

func (s *Sink) finishedLocked() bool {
	return s.ctrl == nil || s.finishedGen.Load() >= s.generation
}

// SetVolume sets the output volume (0.0 to 1.0).
func (s *Sink) SetVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = clampVolume(volume)
	if s.vol == nil {
		return
	}
	speaker.Lock()
	s.vol.Volume = gain(s.volume)
	s.vol.Silent = s.volume <= 0
	speaker.Unlock()
}

// Volume returns the current output volume.
func (s *Sink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Close stops playback and releases the output device.
func (s *Sink) Close() error {
	s.Stop()
	speaker.Close()
	return nil
}

var _ ports.AudioSink = (*Sink)(nil)
