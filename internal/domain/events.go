// Package domain defines events for the event-driven architecture.
// Events let adapters (media bus, notifications, UI) follow playback without
// the services knowing about them.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Playback events
	EventTrackStarted          EventType = "track.started"
	EventTrackCompleted        EventType = "track.completed"
	EventTrackError            EventType = "track.error"
	EventTrackCleared          EventType = "track.cleared"
	EventPlaybackStatusChanged EventType = "playback.status_changed"

	// Volume events
	EventVolumeChanged EventType = "volume.changed"

	// Queue events
	EventQueueChanged EventType = "queue.changed"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// TrackStartedEvent is published when a track has been handed to the sink.
type TrackStartedEvent struct {
	baseEvent
	Track     Track
	StreamURL string
	Source    PlaybackSource
}

// Type returns the event type.
func (e TrackStartedEvent) Type() EventType {
	return EventTrackStarted
}

// NewTrackStartedEvent creates a new TrackStartedEvent.
func NewTrackStartedEvent(track Track, streamURL string, source PlaybackSource) TrackStartedEvent {
	return TrackStartedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		StreamURL: streamURL,
		Source:    source,
	}
}

// TrackCompletedEvent is published when a track finishes on its own.
type TrackCompletedEvent struct {
	baseEvent
	Track Track
}

// Type returns the event type.
func (e TrackCompletedEvent) Type() EventType {
	return EventTrackCompleted
}

// NewTrackCompletedEvent creates a new TrackCompletedEvent.
func NewTrackCompletedEvent(track Track) TrackCompletedEvent {
	return TrackCompletedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// TrackErrorEvent is published when a track cannot be fetched or played.
type TrackErrorEvent struct {
	baseEvent
	Track Track
	Error error
}

// Type returns the event type.
func (e TrackErrorEvent) Type() EventType {
	return EventTrackError
}

// NewTrackErrorEvent creates a new TrackErrorEvent.
func NewTrackErrorEvent(track Track, err error) TrackErrorEvent {
	return TrackErrorEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
		Error:     err,
	}
}

// TrackClearedEvent is published when playback stops and nothing is loaded any more.
type TrackClearedEvent struct {
	baseEvent
	Track Track // the track that was unloaded
}

// Type returns the event type.
func (e TrackClearedEvent) Type() EventType {
	return EventTrackCleared
}

// NewTrackClearedEvent creates a new TrackClearedEvent.
func NewTrackClearedEvent(track Track) TrackClearedEvent {
	return TrackClearedEvent{
		baseEvent: newBaseEvent(),
		Track:     track,
	}
}

// PlaybackStatusChangedEvent is published whenever the reported status changes.
type PlaybackStatusChangedEvent struct {
	baseEvent
	Status PlaybackStatus
}

// Type returns the event type.
func (e PlaybackStatusChangedEvent) Type() EventType {
	return EventPlaybackStatusChanged
}

// NewPlaybackStatusChangedEvent creates a new PlaybackStatusChangedEvent.
func NewPlaybackStatusChangedEvent(status PlaybackStatus) PlaybackStatusChangedEvent {
	return PlaybackStatusChangedEvent{
		baseEvent: newBaseEvent(),
		Status:    status,
	}
}

// VolumeChangedEvent is published when the volume changes.
type VolumeChangedEvent struct {
	baseEvent
	Volume float64
}

// Type returns the event type.
func (e VolumeChangedEvent) Type() EventType {
	return EventVolumeChanged
}

// NewVolumeChangedEvent creates a new VolumeChangedEvent.
func NewVolumeChangedEvent(volume float64) VolumeChangedEvent {
	return VolumeChangedEvent{
		baseEvent: newBaseEvent(),
		Volume:    volume,
	}
}

// QueueChangedEvent is published when the play queue is modified.
type QueueChangedEvent struct {
	baseEvent
	Length int
}

// Type returns the event type.
func (e QueueChangedEvent) Type() EventType {
	return EventQueueChanged
}

// NewQueueChangedEvent creates a new QueueChangedEvent.
func NewQueueChangedEvent(length int) QueueChangedEvent {
	return QueueChangedEvent{
		baseEvent: newBaseEvent(),
		Length:    length,
	}
}
