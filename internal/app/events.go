package app

import (
	"log/slog"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// eventLog writes finished tracks and queue changes to the log file.
type eventLog struct {
	logger *slog.Logger
	bus    ports.EventBus
	subs   []domain.SubscriptionID
}

func newEventLog(logger *slog.Logger, bus ports.EventBus) *eventLog {
	l := &eventLog{logger: logger, bus: bus}
	l.subs = []domain.SubscriptionID{
		bus.Subscribe(domain.EventTrackCompleted, l.onTrackCompleted),
		bus.Subscribe(domain.EventQueueChanged, l.onQueueChanged),
	}
	return l
}

func (l *eventLog) onTrackCompleted(e domain.Event) {
	ev := e.(domain.TrackCompletedEvent)
	l.logger.Info("track completed",
		slog.String("track_id", ev.Track.ID),
		slog.String("title", ev.Track.DisplayTitle()))
}

func (l *eventLog) onQueueChanged(e domain.Event) {
	l.logger.Debug("queue changed", slog.Int("length", e.(domain.QueueChangedEvent).Length))
}

func (l *eventLog) close() {
	for _, id := range l.subs {
		l.bus.Unsubscribe(id)
	}
	l.subs = nil
}
