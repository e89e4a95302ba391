// Package notify shows desktop notifications for playback events.
package notify

import (
	"log/slog"
	"strings"

	"github.com/gen2brain/beeep"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

var beeepNotify = func(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Desktop sends notifications through the platform notification service.
type Desktop struct{}

// NewDesktop creates a notifier whose notifications are attributed to appName.
func NewDesktop(appName string) *Desktop {
	beeep.AppName = appName
	return &Desktop{}
}

// Notify shows a notification.
func (d *Desktop) Notify(title, message string) error {
	return beeepNotify(title, message)
}

var _ ports.Notifier = (*Desktop)(nil)

// NowPlaying announces every started track and every track that failed to play.
type NowPlaying struct {
	logger   *slog.Logger
	notifier ports.Notifier
	bus      ports.EventBus
	subs     []domain.SubscriptionID
}

// NewNowPlaying subscribes notifier to track starts and failures on bus.
func NewNowPlaying(logger *slog.Logger, notifier ports.Notifier, bus ports.EventBus) *NowPlaying {
	n := &NowPlaying{logger: logger, notifier: notifier, bus: bus}
	n.subs = []domain.SubscriptionID{
		bus.Subscribe(domain.EventTrackStarted, n.onTrackStarted),
		bus.Subscribe(domain.EventTrackError, n.onTrackError),
	}
	return n
}

// Close stops the announcements.
func (n *NowPlaying) Close() error {
	for _, id := range n.subs {
		n.bus.Unsubscribe(id)
	}
	n.subs = nil
	return nil
}

func (n *NowPlaying) onTrackStarted(e domain.Event) {
	ev := e.(domain.TrackStartedEvent)
	n.send("Now playing", Describe(ev.Track))
}

func (n *NowPlaying) onTrackError(e domain.Event) {
	ev := e.(domain.TrackErrorEvent)
	n.send("Playback failed", ev.Track.DisplayTitle()+": "+domain.UserMessage(ev.Error))
}

func (n *NowPlaying) send(title, message string) {
	if err := n.notifier.Notify(title, message); err != nil {
		n.logger.Debug("notification failed", slog.String("title", title), slog.Any("error", err))
	}
}

// Describe renders "Title - Artist (Album)", leaving out missing parts.
func Describe(track domain.Track) string {
	var b strings.Builder
	b.WriteString(track.DisplayTitle())
	if track.Artist != "" {
		b.WriteString(" - ")
		b.WriteString(track.Artist)
	}
	if track.Album != "" {
		b.WriteString(" (")
		b.WriteString(track.Album)
		b.WriteString(")")
	}
	return b.String()
}
