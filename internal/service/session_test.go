package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/testutil"
)

func startedEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.session.Start(context.Background())
	return env
}

// openFirstAlbum drills Artists → Albums → Songs on the first rows.
func openFirstAlbum(t *testing.T, env *testEnv) {
	t.Helper()
	ctx := context.Background()
	env.session.Apply(ctx, ActionSelect)
	env.session.Apply(ctx, ActionSelect)
	require.Equal(t, domain.ViewSongs, env.nav.View())
}

func message(env *testEnv) string {
	text, _ := env.session.Message()
	return text
}

func TestSession_StartFailureShowsError(t *testing.T) {
	env := newTestEnv(t)
	env.lib.fail = domain.NewAPIError(domain.APIConnectivity, "getArtists", 0, "connection refused", nil)

	env.session.Start(context.Background())
	assert.Equal(t, "Error: connection refused", message(env))
	assert.Equal(t, "Queue: 0 Error: connection refused", env.session.StatusLine())
}

func TestSession_StatusMessageExpires(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()
	openFirstAlbum(t, env)

	env.session.Apply(ctx, ActionAddToQueue)
	assert.Equal(t, "Added to queue: One (Queue: 1)", message(env))

	env.clock.Advance(QueueMessageTimeout - time.Millisecond)
	env.session.Tick(ctx)
	assert.Equal(t, "Queue: 1 Added to queue: One (Queue: 1)", env.session.StatusLine())

	env.clock.Advance(time.Millisecond)
	_, ok := env.session.Message()
	assert.False(t, ok)
	env.session.Tick(ctx)
	assert.Equal(t, "Queue: 1 Songs in First", env.session.StatusLine())
}

func TestSession_SelectPlays(t *testing.T) {
	env := startedEnv(t)
	openFirstAlbum(t, env)

	env.session.Apply(context.Background(), ActionSelect)

	assert.Equal(t, "s1", playing(t, env.sink))
	assert.Equal(t, "Playing: One", message(env))
	assert.Equal(t, domain.FromAlbum{Tracks: env.lib.songs["al1"], Index: 0}, env.playback.Source())
}

func TestSession_SelectFailureShowsError(t *testing.T) {
	env := startedEnv(t)
	openFirstAlbum(t, env)
	env.lib.failStream["s1"] = true

	env.session.Apply(context.Background(), ActionSelect)

	assert.Equal(t, "Error: Song not found", message(env))
	assert.Nil(t, env.playback.Source())
	assert.Empty(t, env.sink.Played())
}

func TestSession_QueueActions(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	// Artists view: nothing to queue.
	env.session.Apply(ctx, ActionAddToQueue)
	assert.Equal(t, 0, env.session.QueueLen())

	env.session.Apply(ctx, ActionPlayNext)
	assert.Equal(t, "Queue is empty", message(env))

	env.session.Apply(ctx, ActionClearQueue)
	assert.Equal(t, "Queue is empty", message(env), "clearing an empty queue says nothing")

	openFirstAlbum(t, env)
	env.session.Apply(ctx, ActionAddToQueue)
	env.session.Apply(ctx, ActionMoveDown)
	env.session.Apply(ctx, ActionAddToQueue)
	assert.Equal(t, "Added to queue: Two (Queue: 2)", message(env))

	env.session.Apply(ctx, ActionRemoveFromQueue)
	assert.Equal(t, "Removed from queue", message(env))
	head, _ := env.queue.Peek()
	assert.Equal(t, "s2", head.ID)

	env.session.Apply(ctx, ActionPlayNext)
	assert.Equal(t, "Playing: Two", message(env))
	assert.Equal(t, 0, env.session.QueueLen())

	env.session.Apply(ctx, ActionAddToQueue)
	env.session.Apply(ctx, ActionClearQueue)
	assert.Equal(t, "Queue cleared", message(env))
	assert.Equal(t, 0, env.session.QueueLen())
}

func TestSession_RestartQueue(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()
	openFirstAlbum(t, env)

	env.session.Apply(ctx, ActionRestartQueue)
	assert.Empty(t, env.sink.Played())
	assert.Equal(t, 0, env.sink.StopCount())

	env.session.Apply(ctx, ActionSelect)
	env.session.Apply(ctx, ActionMoveDown)
	env.session.Apply(ctx, ActionAddToQueue)

	env.session.Apply(ctx, ActionRestartQueue)
	assert.Equal(t, 1, env.sink.StopCount())
	assert.Equal(t, "s2", playing(t, env.sink))
	assert.Equal(t, domain.FromQueue{}, env.playback.Source())
}

func TestSession_TogglePause(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	env.session.Apply(ctx, ActionTogglePause)
	_, ok := env.session.Message()
	assert.False(t, ok)

	openFirstAlbum(t, env)
	env.session.Apply(ctx, ActionSelect)

	env.session.Apply(ctx, ActionTogglePause)
	assert.Equal(t, "Paused", message(env))
	env.session.Apply(ctx, ActionTogglePause)
	assert.Equal(t, "Resumed", message(env))
}

func TestSession_NaturalFinishAdvances(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()
	openFirstAlbum(t, env)
	env.session.Apply(ctx, ActionSelect)

	env.session.Tick(ctx)
	assert.Len(t, env.sink.Played(), 1)

	env.sink.SimulateFinish()
	env.session.Tick(ctx)
	assert.Equal(t, "s2", playing(t, env.sink))
	assert.Equal(t, "Playing: Two", message(env))

	env.sink.SimulateFinish()
	env.session.Tick(ctx)
	assert.Nil(t, env.playback.Source())
	assert.Equal(t, domain.StatusStopped, env.playback.Status())

	env.session.Tick(ctx)
	assert.Len(t, env.sink.Played(), 2)
}

func TestSession_PausedTrackIsNotFinished(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()
	openFirstAlbum(t, env)
	env.session.Apply(ctx, ActionSelect)
	env.session.Apply(ctx, ActionTogglePause)

	env.session.Tick(ctx)
	assert.Len(t, env.sink.Played(), 1)
}

func TestSession_RemoteCommands(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()
	openFirstAlbum(t, env)
	env.session.Apply(ctx, ActionSelect)

	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandNext}
	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandSetVolume, Volume: 0.25}
	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandPause}
	env.session.Tick(ctx)

	assert.Equal(t, "s2", playing(t, env.sink))
	assert.Equal(t, 0.25, env.sink.Volume())
	assert.Equal(t, domain.StatusPaused, env.playback.Status())
	assert.Empty(t, env.remote.ch)

	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandPlayPause}
	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandPrevious}
	env.session.Tick(ctx)
	assert.Equal(t, "s1", playing(t, env.sink))
	assert.Equal(t, domain.StatusPlaying, env.playback.Status())

	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandSeek, Offset: time.Second}
	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandStop}
	env.session.Tick(ctx)
	assert.Equal(t, domain.StatusStopped, env.playback.Status())
	assert.Nil(t, env.playback.Source())

	env.queue.Enqueue(track("q"))
	env.remote.ch <- domain.RemoteCommand{Kind: domain.CommandPlay}
	env.session.Tick(ctx)
	assert.Equal(t, "q", playing(t, env.sink))
}

func TestSession_RemoteChannelClosed(t *testing.T) {
	env := startedEnv(t)
	close(env.remote.ch)

	assert.NotPanics(t, func() {
		env.session.Tick(context.Background())
		env.session.Tick(context.Background())
	})
}

func TestSession_NoRemote(t *testing.T) {
	defer testutil.VerifyNoLeaks(t)

	env := newTestEnv(t)
	session := NewSession(env.session.logger, env.nav, env.playback, env.queue, nil, nil)
	session.Start(context.Background())

	assert.NotPanics(t, func() { session.Tick(context.Background()) })
	session.Apply(context.Background(), ActionCopyStreamURL)
	text, _ := session.Message()
	assert.Equal(t, "Nothing is playing", text)
}

func TestSession_QuitAndBack(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	assert.False(t, env.session.Apply(ctx, ActionBack), "back never quits")
	assert.Equal(t, domain.ViewArtists, env.nav.View())

	openFirstAlbum(t, env)
	assert.False(t, env.session.Apply(ctx, ActionQuit))
	assert.Equal(t, domain.ViewAlbums, env.nav.View())
	assert.False(t, env.session.Apply(ctx, ActionBack))
	assert.Equal(t, domain.ViewArtists, env.nav.View())
	assert.True(t, env.session.Apply(ctx, ActionQuit))
}

func TestSession_Search(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	env.session.Apply(ctx, ActionBeginSearch)
	for _, r := range "abcx" {
		env.session.SearchInput(r)
	}
	env.session.Apply(ctx, ActionSearchBackspace)
	env.session.Apply(ctx, ActionSubmitSearch)

	assert.Equal(t, domain.ViewSearch, env.nav.View())
	assert.Equal(t, "abc", env.lib.lastQuery)
	assert.Equal(t, []string{"[A] Second - Band", "[S] One - Band"}, env.nav.Rows())

	env.session.Apply(ctx, ActionMoveDown)
	env.session.Apply(ctx, ActionAddToQueue)
	assert.Equal(t, "Added to queue: One (Queue: 1)", message(env))

	env.session.Apply(ctx, ActionBeginSearch)
	env.session.SearchInput('z')
	env.lib.fail = errBoom
	env.session.Apply(ctx, ActionSubmitSearch)
	assert.Equal(t, "Search error: boom", message(env))
	assert.Equal(t, domain.ViewSearch, env.nav.View())

	env.session.Apply(ctx, ActionBeginSearch)
	env.session.Apply(ctx, ActionCancelSearch)
	assert.False(t, env.nav.Searching())
}

func TestSession_VolumeAndStop(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()
	_, err := env.playback.SetVolume(0.5)
	require.NoError(t, err)

	env.session.Apply(ctx, ActionVolumeUp)
	assert.Equal(t, "Volume: 55%", message(env))
	env.session.Apply(ctx, ActionVolumeDown)
	env.session.Apply(ctx, ActionVolumeDown)
	assert.Equal(t, "Volume: 45%", message(env))

	openFirstAlbum(t, env)
	env.session.Apply(ctx, ActionSelect)
	env.session.Apply(ctx, ActionStop)
	assert.Equal(t, "Stopped", message(env))
	assert.Equal(t, domain.StatusStopped, env.playback.Status())
}

func TestSession_CopyStreamURL(t *testing.T) {
	env := startedEnv(t)
	ctx := context.Background()

	env.session.Apply(ctx, ActionCopyStreamURL)
	assert.Equal(t, "Nothing is playing", message(env))

	openFirstAlbum(t, env)
	env.session.Apply(ctx, ActionSelect)
	env.session.Apply(ctx, ActionCopyStreamURL)
	assert.Equal(t, "Copied stream URL", message(env))
	assert.Equal(t, "http://music.test/rest/stream?id=s1", env.clipboard.text)

	env.clipboard.err = errBoom
	env.session.Apply(ctx, ActionCopyStreamURL)
	assert.Equal(t, "Error: boom", message(env))
}

func TestSession_HelpToggle(t *testing.T) {
	env := startedEnv(t)

	env.session.Apply(context.Background(), ActionToggleHelp)
	assert.True(t, env.nav.HelpVisible())
	env.session.Apply(context.Background(), ActionToggleHelp)
	assert.False(t, env.nav.HelpVisible())
}
