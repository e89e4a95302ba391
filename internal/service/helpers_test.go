package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tejashwikalptaru/subtune/internal/adapter/audio/mock"
	"github.com/tejashwikalptaru/subtune/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/logger"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// fakeLibrary is an in-memory media server.
type fakeLibrary struct {
	artists     []domain.Artist
	albums      map[string][]domain.Album
	artistNames map[string]string
	songs       map[string][]domain.Track
	albumNames  map[string]string
	results     domain.SearchResults

	fail       error
	failStream map[string]bool

	albumCalls []string
	lastQuery  string
	lastLimits domain.SearchLimits
}

func newFakeLibrary() *fakeLibrary {
	s1 := domain.Track{ID: "s1", Title: "One", AlbumID: "al1", Artist: "Band", Album: "First"}
	s2 := domain.Track{ID: "s2", Title: "Two", AlbumID: "al1", Artist: "Band", Album: "First"}
	s3 := domain.Track{ID: "s3", Title: "Three", AlbumID: "al2", Artist: "Band", Album: "Second"}

	return &fakeLibrary{
		artists: []domain.Artist{{ID: "ar1", Name: "Band"}, {ID: "ar2", Name: "Solo"}},
		albums: map[string][]domain.Album{
			"ar1": {{ID: "al1", Name: "First", ArtistID: "ar1"}, {ID: "al2", Name: "Second", ArtistID: "ar1"}},
			"ar2": {{ID: "al3", Name: "Alone", ArtistID: "ar2"}},
		},
		artistNames: map[string]string{"ar1": "Band", "ar2": "Solo"},
		songs: map[string][]domain.Track{
			"al1": {s1, s2},
			"al2": {s3},
			"al3": {},
		},
		albumNames: map[string]string{"al1": "First", "al2": "Second", "al3": "Alone"},
		results: domain.SearchResults{
			Albums: []domain.AlbumHit{{ID: "al2", Name: "Second", Artist: "Band", ArtistID: "ar1"}},
			Songs:  []domain.SongHit{{ID: "s1", Title: "One", Artist: "Band", AlbumID: "al1", Album: "First"}},
		},
		failStream: map[string]bool{},
	}
}

func (f *fakeLibrary) Ping(context.Context) error {
	return f.fail
}

func (f *fakeLibrary) Artists(context.Context) ([]domain.Artist, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	return f.artists, nil
}

func (f *fakeLibrary) Albums(_ context.Context, artistID string) (string, []domain.Album, error) {
	f.albumCalls = append(f.albumCalls, artistID)
	if f.fail != nil {
		return "", nil, f.fail
	}
	return f.artistNames[artistID], f.albums[artistID], nil
}

func (f *fakeLibrary) Songs(_ context.Context, albumID string) (string, []domain.Track, error) {
	if f.fail != nil {
		return "", nil, f.fail
	}
	return f.albumNames[albumID], f.songs[albumID], nil
}

func (f *fakeLibrary) Search(_ context.Context, query string, limits domain.SearchLimits) (domain.SearchResults, error) {
	f.lastQuery = query
	f.lastLimits = limits
	if f.fail != nil {
		return domain.SearchResults{}, f.fail
	}
	return f.results, nil
}

func (f *fakeLibrary) StreamURL(trackID string) (string, error) {
	return "http://music.test/rest/stream?id=" + trackID, nil
}

func (f *fakeLibrary) FetchStream(_ context.Context, url string) ([]byte, error) {
	id := url[strings.LastIndex(url, "=")+1:]
	if f.failStream[id] {
		return nil, domain.NewAPIError(domain.APIServer, "stream", 70, "Song not found", nil)
	}
	return []byte("audio-" + id), nil
}

var _ ports.LibraryClient = (*fakeLibrary)(nil)

// fakeTags returns fixed tags.
type fakeTags struct {
	tags domain.TrackTags
	err  error
}

func (f fakeTags) ReadTags([]byte) (domain.TrackTags, error) {
	return f.tags, f.err
}

// fakeRemote is a remote control backed by a buffered channel.
type fakeRemote struct {
	ch chan domain.RemoteCommand
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{ch: make(chan domain.RemoteCommand, 8)}
}

func (r *fakeRemote) Commands() <-chan domain.RemoteCommand { return r.ch }
func (r *fakeRemote) Close() error                          { return nil }

// fakeClipboard records writes.
type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
func newFakeClock() *fakeClock               { return &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)} }

var errBoom = errors.New("boom")

// testEnv bundles the services wired the way the application wires them.
type testEnv struct {
	lib       *fakeLibrary
	sink      *mock.Sink
	bus       *eventbus.SyncEventBus
	queue     *QueueService
	library   *LibraryService
	playback  *PlaybackService
	nav       *NavigationService
	session   *Session
	remote    *fakeRemote
	clipboard *fakeClipboard
	clock     *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewTestLogger()
	env := &testEnv{
		lib:       newFakeLibrary(),
		sink:      mock.NewSink(),
		bus:       eventbus.NewSyncEventBus(log),
		remote:    newFakeRemote(),
		clipboard: &fakeClipboard{},
		clock:     newFakeClock(),
	}
	env.queue = NewQueueService(log, env.bus)
	env.library = NewLibraryService(log, env.lib, NewTitles(false), domain.DefaultSearchLimits(20))
	env.playback = NewPlaybackService(log, env.lib, env.sink, nil, env.queue, env.bus)
	env.nav = NewNavigationService(log, env.library)
	env.session = NewSession(log, env.nav, env.playback, env.queue, env.remote, env.clipboard)
	env.session.SetClock(env.clock.Now)

	t.Cleanup(func() { _ = env.bus.Close() })
	return env
}

func track(id string) domain.Track {
	return domain.Track{ID: id, Title: "Title " + id, Artist: "Artist", Album: "Album"}
}

func album(ids ...string) []domain.Track {
	out := make([]domain.Track, len(ids))
	for i, id := range ids {
		out[i] = track(id)
	}
	return out
}

// playing returns the track id of the last buffer handed to the sink.
func playing(t *testing.T, sink *mock.Sink) string {
	t.Helper()
	data := sink.LastPlayed()
	require.NotNil(t, data, "nothing was played")
	return strings.TrimPrefix(string(data), "audio-")
}
