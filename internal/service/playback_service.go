// Package service provides business logic for the SubTune application.
package service

import (
	"context"
	"log/slog"
	"math"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// PlaybackService decides what plays next and drives the audio sink.
//
// It owns the playback source (why the current track was chosen), which
// determines the behaviour of Next, Previous and a natural track finish.
// A failed fetch or decode never changes the source or the queue.
//
// The service is owned by the session loop and is not safe for concurrent use.
type PlaybackService struct {
	// Dependencies (injected)
	logger *slog.Logger
	client ports.LibraryClient
	sink   ports.AudioSink
	tags   ports.MetadataReader
	queue  *QueueService
	bus    ports.EventBus

	// State
	status    domain.PlaybackStatus
	source    domain.PlaybackSource
	current   *domain.Track
	streamURL string
}

// NewPlaybackService creates a new playback service. tags may be nil.
func NewPlaybackService(
	logger *slog.Logger,
	client ports.LibraryClient,
	sink ports.AudioSink,
	tags ports.MetadataReader,
	queue *QueueService,
	bus ports.EventBus,
) *PlaybackService {
	logger.Debug("playback service initialized")
	return &PlaybackService{
		logger: logger,
		client: client,
		sink:   sink,
		tags:   tags,
		queue:  queue,
		bus:    bus,
		status: domain.StatusStopped,
	}
}

// PlayTrack streams track into the sink and records source as its provenance.
// Returns the track as played, enriched with embedded tags where the server left gaps.
func (s *PlaybackService) PlayTrack(ctx context.Context, track domain.Track, source domain.PlaybackSource) (domain.Track, error) {
	s.logger.Debug("playing track",
		slog.String("track_id", track.ID),
		slog.String("source", domain.SourceName(source)))

	url, err := s.client.StreamURL(track.ID)
	if err != nil {
		return domain.Track{}, s.trackFailed(track, err)
	}

	data, err := s.client.FetchStream(ctx, url)
	if err != nil {
		return domain.Track{}, s.trackFailed(track, err)
	}

	track = s.enrich(track, data)

	if err := s.sink.Play(data); err != nil {
		return domain.Track{}, s.trackFailed(track, err)
	}

	s.current = &track
	s.source = source
	s.streamURL = url

	s.logger.Info("track started",
		slog.String("track_id", track.ID),
		slog.String("title", track.Title),
		slog.String("source", domain.SourceName(source)))

	s.bus.Publish(domain.NewTrackStartedEvent(track, url, source))
	s.setStatus(domain.StatusPlaying)

	return track, nil
}

// PlayNextInQueue plays the head of the queue. The head is only removed once
// it is playing. played is false when the queue is empty.
func (s *PlaybackService) PlayNextInQueue(ctx context.Context) (track domain.Track, played bool, err error) {
	head, ok := s.queue.Peek()
	if !ok {
		return domain.Track{}, false, nil
	}

	track, err = s.PlayTrack(ctx, head, domain.FromQueue{})
	if err != nil {
		return domain.Track{}, false, err
	}

	s.queue.DequeueFront()
	return track, true, nil
}

// Next skips to the following track. A non-empty queue always wins; otherwise
// an album source advances by one and anything else stops.
func (s *PlaybackService) Next(ctx context.Context) (domain.Track, bool, error) {
	if s.queue.Len() > 0 {
		return s.PlayNextInQueue(ctx)
	}
	return s.continueFromSource(ctx)
}

// Previous restarts from the preceding album track, or index 0 at the start
// of an album. For other sources the loaded track is replayed; after a stop
// there is nothing to go back to.
func (s *PlaybackService) Previous(ctx context.Context) (domain.Track, bool, error) {
	switch src := s.source.(type) {
	case domain.FromAlbum:
		prev := src.At(max(src.Index-1, 0))
		track, ok := prev.Current()
		if !ok {
			return domain.Track{}, false, nil
		}
		return s.play(ctx, track, prev)
	case domain.FromQueue, domain.FromSearch, domain.FromUnknown, nil:
		if s.current == nil {
			return domain.Track{}, false, nil
		}
		source := s.source
		if source == nil {
			source = domain.FromUnknown{}
		}
		return s.play(ctx, *s.current, source)
	default:
		return domain.Track{}, false, nil
	}
}

// IsTrackFinished reports whether the sink ran dry while the status says Playing.
func (s *PlaybackService) IsTrackFinished() bool {
	return s.status == domain.StatusPlaying && !s.sink.IsPaused() && s.sink.IsFinished()
}

// OnTrackFinished continues playback after the current track ended by itself.
// If the continuation fails, the status drops to Stopped so the finish is not
// handled twice.
func (s *PlaybackService) OnTrackFinished(ctx context.Context) (domain.Track, bool, error) {
	if s.current != nil {
		s.bus.Publish(domain.NewTrackCompletedEvent(*s.current))
	}

	track, played, err := s.Next(ctx)
	if err != nil {
		s.setStatus(domain.StatusStopped)
	}
	return track, played, err
}

// Play resumes a paused sink. Otherwise the head of the queue starts, even
// when another track is playing.
func (s *PlaybackService) Play(ctx context.Context) error {
	if s.sink.IsPaused() {
		s.sink.TogglePause()
		s.setStatus(domain.StatusPlaying)
		return nil
	}
	_, _, err := s.PlayNextInQueue(ctx)
	return err
}

// Pause pauses active playback.
func (s *PlaybackService) Pause() {
	if s.sink.IsPaused() || s.sink.IsFinished() {
		return
	}
	s.sink.TogglePause()
	s.setStatus(domain.StatusPaused)
}

// TogglePause flips the sink and returns the resulting status: Paused when
// the sink paused, Playing when it still has audio left. A finished sink
// keeps the current status.
func (s *PlaybackService) TogglePause() domain.PlaybackStatus {
	s.sink.TogglePause()
	switch {
	case s.sink.IsPaused():
		s.setStatus(domain.StatusPaused)
	case !s.sink.IsFinished():
		s.setStatus(domain.StatusPlaying)
	}
	return s.status
}

// Stop halts the sink and forgets the playback source and the loaded track.
func (s *PlaybackService) Stop() {
	s.sink.Stop()
	unloaded := s.current
	s.source = nil
	s.current = nil
	s.streamURL = ""
	if unloaded != nil {
		s.bus.Publish(domain.NewTrackClearedEvent(*unloaded))
	}
	s.setStatus(domain.StatusStopped)
}

// SetVolume clamps volume to [0, 1], applies it and returns the applied value.
func (s *PlaybackService) SetVolume(volume float64) (float64, error) {
	if math.IsNaN(volume) || math.IsInf(volume, 0) {
		return s.sink.Volume(), domain.ErrInvalidVolume
	}
	volume = min(max(volume, 0), 1)
	s.sink.SetVolume(volume)
	s.bus.Publish(domain.NewVolumeChangedEvent(volume))
	return volume, nil
}

// AdjustVolume changes the volume by delta.
func (s *PlaybackService) AdjustVolume(delta float64) (float64, error) {
	return s.SetVolume(s.sink.Volume() + delta)
}

// Volume returns the sink volume.
func (s *PlaybackService) Volume() float64 {
	return s.sink.Volume()
}

// Status returns the reported playback status.
func (s *PlaybackService) Status() domain.PlaybackStatus {
	return s.status
}

// Source returns the provenance of the current track, or nil.
func (s *PlaybackService) Source() domain.PlaybackSource {
	return s.source
}

// CurrentTrack returns the loaded track.
func (s *PlaybackService) CurrentTrack() (domain.Track, bool) {
	if s.current == nil {
		return domain.Track{}, false
	}
	return *s.current, true
}

// StreamURL returns the URL of the loaded track.
func (s *PlaybackService) StreamURL() string {
	return s.streamURL
}

func (s *PlaybackService) continueFromSource(ctx context.Context) (domain.Track, bool, error) {
	switch src := s.source.(type) {
	case domain.FromAlbum:
		next := src.At(src.Index + 1)
		if track, ok := next.Current(); ok {
			return s.play(ctx, track, next)
		}
		s.logger.Debug("end of album reached")
		s.Stop()
		return domain.Track{}, false, nil
	case domain.FromQueue, domain.FromSearch, domain.FromUnknown, nil:
		s.Stop()
		return domain.Track{}, false, nil
	default:
		s.Stop()
		return domain.Track{}, false, nil
	}
}

func (s *PlaybackService) play(ctx context.Context, track domain.Track, source domain.PlaybackSource) (domain.Track, bool, error) {
	played, err := s.PlayTrack(ctx, track, source)
	if err != nil {
		return domain.Track{}, false, err
	}
	return played, true, nil
}

func (s *PlaybackService) enrich(track domain.Track, data []byte) domain.Track {
	if s.tags == nil || (track.Artist != "" && track.Album != "") {
		return track
	}
	tags, err := s.tags.ReadTags(data)
	if err != nil {
		s.logger.Debug("no embedded tags", slog.String("track_id", track.ID), slog.Any("error", err))
		return track
	}
	if track.Artist == "" {
		track.Artist = tags.Artist
	}
	if track.Album == "" {
		track.Album = tags.Album
	}
	if track.Title == "" {
		track.Title = tags.Title
	}
	return track
}

func (s *PlaybackService) trackFailed(track domain.Track, err error) error {
	s.logger.Warn("failed to play track", slog.String("track_id", track.ID), slog.Any("error", err))
	s.bus.Publish(domain.NewTrackErrorEvent(track, err))
	return err
}

func (s *PlaybackService) setStatus(status domain.PlaybackStatus) {
	if s.status == status {
		return
	}
	s.status = status
	s.bus.Publish(domain.NewPlaybackStatusChangedEvent(status))
}
