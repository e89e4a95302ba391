package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// Status message lifetimes.
const (
	QueueMessageTimeout   = 1500 * time.Millisecond
	PlayingMessageTimeout = 2000 * time.Millisecond
	ErrorMessageTimeout   = 3000 * time.Millisecond
)

// VolumeStep is the change applied by the volume keys.
const VolumeStep = 0.05

// Action is a user intent produced by the input surface.
type Action int

const (
	ActionNone Action = iota
	ActionMoveUp
	ActionMoveDown
	ActionMoveTop
	ActionMoveBottom
	ActionSelect
	ActionBack // one level up, never quits
	ActionQuit // one level up, quits on the Artists view
	ActionBeginSearch
	ActionSubmitSearch
	ActionCancelSearch
	ActionSearchBackspace
	ActionToggleHelp
	ActionAddToQueue
	ActionPlayNext
	ActionRemoveFromQueue
	ActionClearQueue
	ActionRestartQueue
	ActionTogglePause
	ActionStop
	ActionVolumeUp
	ActionVolumeDown
	ActionCopyStreamURL
)

// Session is the single loop that owns the queue, the navigator and the
// playback orchestrator. Tick and Apply must be called from one goroutine.
type Session struct {
	logger    *slog.Logger
	nav       *NavigationService
	playback  *PlaybackService
	queue     *QueueService
	remote    ports.RemoteControl
	clipboard ports.Clipboard

	now     func() time.Time
	message *domain.StatusMessage
}

// NewSession wires the loop. remote and clipboard may be nil.
func NewSession(
	logger *slog.Logger,
	nav *NavigationService,
	playback *PlaybackService,
	queue *QueueService,
	remote ports.RemoteControl,
	clipboard ports.Clipboard,
) *Session {
	return &Session{
		logger:    logger,
		nav:       nav,
		playback:  playback,
		queue:     queue,
		remote:    remote,
		clipboard: clipboard,
		now:       time.Now,
	}
}

// SetClock replaces the time source used for status message expiry.
func (s *Session) SetClock(now func() time.Time) {
	s.now = now
}

// Start loads the initial artist list.
func (s *Session) Start(ctx context.Context) {
	if err := s.nav.LoadArtists(ctx); err != nil {
		s.showError("Error: ", err)
	}
}

// Tick runs one housekeeping step: it expires the status message, drains
// pending remote commands without blocking and handles a finished track.
func (s *Session) Tick(ctx context.Context) {
	if s.message != nil && s.message.Expired(s.now()) {
		s.message = nil
	}

	s.drainRemote(ctx)

	if s.playback.IsTrackFinished() {
		track, played, err := s.playback.OnTrackFinished(ctx)
		switch {
		case err != nil:
			s.showError("Error: ", err)
		case played:
			s.show("Playing: "+track.DisplayTitle(), PlayingMessageTimeout)
		}
	}
}

// Apply performs one action. It returns true when the session should end.
func (s *Session) Apply(ctx context.Context, action Action) bool {
	switch action {
	case ActionMoveUp:
		s.nav.MoveUp()
	case ActionMoveDown:
		s.nav.MoveDown()
	case ActionMoveTop:
		s.nav.MoveTop()
	case ActionMoveBottom:
		s.nav.MoveBottom()

	case ActionSelect:
		s.selectRow(ctx)

	case ActionBack:
		if s.nav.View() != domain.ViewArtists {
			s.back(ctx)
		}
	case ActionQuit:
		return s.back(ctx)

	case ActionBeginSearch:
		s.nav.BeginSearch()
	case ActionSubmitSearch:
		if err := s.nav.SubmitSearch(ctx); err != nil {
			s.showError("Search error: ", err)
		}
	case ActionCancelSearch:
		s.nav.CancelSearch()
	case ActionSearchBackspace:
		s.nav.SearchBackspace()

	case ActionToggleHelp:
		s.nav.ToggleHelp()

	case ActionAddToQueue:
		track, ok := s.nav.SelectedSong()
		if !ok {
			return false
		}
		n := s.queue.Enqueue(track)
		s.show(fmt.Sprintf("Added to queue: %s (Queue: %d)", track.DisplayTitle(), n), QueueMessageTimeout)

	case ActionPlayNext:
		track, played, err := s.playback.PlayNextInQueue(ctx)
		switch {
		case err != nil:
			s.showError("Error: ", err)
		case !played:
			s.show("Queue is empty", QueueMessageTimeout)
		default:
			s.show("Playing: "+track.DisplayTitle(), PlayingMessageTimeout)
		}

	case ActionRemoveFromQueue:
		if s.queue.RemoveFront() {
			s.show("Removed from queue", QueueMessageTimeout)
		}

	case ActionClearQueue:
		if s.queue.Len() > 0 {
			s.queue.Clear()
			s.show("Queue cleared", QueueMessageTimeout)
		}

	case ActionRestartQueue:
		if s.queue.Len() == 0 {
			return false
		}
		s.playback.Stop()
		track, _, err := s.playback.PlayNextInQueue(ctx)
		if err != nil {
			s.showError("Error: ", err)
			return false
		}
		s.show("Playing: "+track.DisplayTitle(), PlayingMessageTimeout)

	case ActionTogglePause:
		switch s.playback.TogglePause() {
		case domain.StatusPaused:
			s.show("Paused", QueueMessageTimeout)
		case domain.StatusPlaying:
			s.show("Resumed", QueueMessageTimeout)
		}

	case ActionStop:
		s.playback.Stop()
		s.show("Stopped", QueueMessageTimeout)

	case ActionVolumeUp:
		s.adjustVolume(VolumeStep)
	case ActionVolumeDown:
		s.adjustVolume(-VolumeStep)

	case ActionCopyStreamURL:
		s.copyStreamURL()
	}
	return false
}

// SearchInput forwards a typed rune to the search buffer.
func (s *Session) SearchInput(r rune) {
	s.nav.SearchInput(r)
}

// Navigation returns the navigator for rendering.
func (s *Session) Navigation() *NavigationService {
	return s.nav
}

// Playback returns the orchestrator for rendering.
func (s *Session) Playback() *PlaybackService {
	return s.playback
}

// QueueLen returns the number of queued tracks.
func (s *Session) QueueLen() int {
	return s.queue.Len()
}

// Message returns the live status message, if any.
func (s *Session) Message() (string, bool) {
	if s.message == nil || s.message.Expired(s.now()) {
		return "", false
	}
	return s.message.Text, true
}

// StatusLine is the left side of the status bar: the queue length followed
// by the status message, or the view title when there is none.
func (s *Session) StatusLine() string {
	text, ok := s.Message()
	if !ok {
		text = s.nav.Title()
	}
	return fmt.Sprintf("Queue: %d %s", s.queue.Len(), text)
}

func (s *Session) selectRow(ctx context.Context) {
	req, err := s.nav.Select(ctx)
	if err != nil {
		s.showError("Error: ", err)
		return
	}
	if req == nil {
		return
	}
	track, err := s.playback.PlayTrack(ctx, req.Track, req.Source)
	if err != nil {
		s.showError("Error: ", err)
		return
	}
	s.show("Playing: "+track.DisplayTitle(), PlayingMessageTimeout)
}

func (s *Session) back(ctx context.Context) bool {
	quit, err := s.nav.Back(ctx)
	if err != nil {
		s.showError("Error: ", err)
		return false
	}
	return quit
}

func (s *Session) adjustVolume(delta float64) {
	volume, err := s.playback.AdjustVolume(delta)
	if err != nil {
		s.showError("Error: ", err)
		return
	}
	s.show(fmt.Sprintf("Volume: %.0f%%", volume*100), QueueMessageTimeout)
}

func (s *Session) copyStreamURL() {
	url := s.playback.StreamURL()
	if url == "" {
		s.show("Nothing is playing", QueueMessageTimeout)
		return
	}
	if s.clipboard == nil {
		s.show("Clipboard not available", QueueMessageTimeout)
		return
	}
	if err := s.clipboard.WriteAll(url); err != nil {
		s.showError("Error: ", err)
		return
	}
	s.show("Copied stream URL", QueueMessageTimeout)
}

func (s *Session) drainRemote(ctx context.Context) {
	if s.remote == nil {
		return
	}
	commands := s.remote.Commands()
	for {
		select {
		case cmd, ok := <-commands:
			if !ok {
				s.remote = nil
				return
			}
			s.handleRemote(ctx, cmd)
		default:
			return
		}
	}
}

func (s *Session) handleRemote(ctx context.Context, cmd domain.RemoteCommand) {
	s.logger.Debug("remote command", slog.String("command", cmd.Kind.String()))

	var (
		track  domain.Track
		played bool
		err    error
	)

	switch cmd.Kind {
	case domain.CommandPlay:
		err = s.playback.Play(ctx)
	case domain.CommandPause:
		s.playback.Pause()
	case domain.CommandPlayPause:
		s.playback.TogglePause()
	case domain.CommandStop:
		s.playback.Stop()
	case domain.CommandNext:
		track, played, err = s.playback.Next(ctx)
	case domain.CommandPrevious:
		track, played, err = s.playback.Previous(ctx)
	case domain.CommandSetVolume:
		_, err = s.playback.SetVolume(cmd.Volume)
	case domain.CommandSeek, domain.CommandSetPosition:
		// not seekable
	}

	switch {
	case err != nil:
		s.showError("Error: ", err)
	case played:
		s.show("Playing: "+track.DisplayTitle(), PlayingMessageTimeout)
	}
}

func (s *Session) show(text string, timeout time.Duration) {
	msg := domain.NewStatusMessage(text, s.now(), timeout)
	s.message = &msg
}

func (s *Session) showError(prefix string, err error) {
	s.logger.Debug("showing error", slog.Any("error", err))
	s.show(prefix+domain.UserMessage(err), ErrorMessageTimeout)
}
