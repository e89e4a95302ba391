package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// PlayRequest asks the orchestrator to play a track selected in a listing.
type PlayRequest struct {
	Track  domain.Track
	Source domain.PlaybackSource
}

// NavigationService is the browse state machine: Artists → Albums → Songs,
// plus search results, a search input mode and a help overlay.
//
// Every list replacement resets the cursor to 0, or -1 for an empty list.
// Failed loads leave the state untouched.
//
// The service is owned by the session loop and is not safe for concurrent use.
type NavigationService struct {
	logger  *slog.Logger
	library *LibraryService

	view    domain.ViewType
	artists []domain.Artist
	albums  []domain.Album
	songs   []domain.Track
	results domain.SearchResults
	hits    []domain.SearchHit

	artistID string
	albumID  string
	// artist whose albums are in the albums list
	albumsArtistID string

	cursor int
	titles map[domain.ViewType]string

	searching    bool
	searchBuffer []rune
	help         bool
}

// NewNavigationService creates a navigator on an empty Artists view.
func NewNavigationService(logger *slog.Logger, library *LibraryService) *NavigationService {
	return &NavigationService{
		logger:  logger,
		library: library,
		view:    domain.ViewArtists,
		cursor:  -1,
		titles:  map[domain.ViewType]string{domain.ViewArtists: "Artists"},
	}
}

// LoadArtists fetches the artist index and shows it.
func (n *NavigationService) LoadArtists(ctx context.Context) error {
	artists, title, err := n.library.Artists(ctx)
	if err != nil {
		return err
	}
	n.artists = artists
	n.artistID = ""
	n.albumID = ""
	n.show(domain.ViewArtists, title)
	return nil
}

// Select drills into the highlighted row. Selecting a song returns a play
// request instead of changing the view.
func (n *NavigationService) Select(ctx context.Context) (*PlayRequest, error) {
	if n.cursor < 0 {
		return nil, nil
	}

	switch n.view {
	case domain.ViewArtists:
		artist := n.artists[n.cursor]
		return nil, n.openArtist(ctx, artist.ID)

	case domain.ViewAlbums:
		album := n.albums[n.cursor]
		return nil, n.openAlbum(ctx, album.ID, n.artistID)

	case domain.ViewSongs:
		tracks := make([]domain.Track, len(n.songs))
		copy(tracks, n.songs)
		return &PlayRequest{
			Track:  tracks[n.cursor],
			Source: domain.FromAlbum{Tracks: tracks, Index: n.cursor},
		}, nil

	case domain.ViewSearch:
		switch hit := n.hits[n.cursor].(type) {
		case domain.AlbumHit:
			return nil, n.openAlbum(ctx, hit.ID, hit.ArtistID)
		case domain.SongHit:
			return &PlayRequest{Track: hit.Track(), Source: domain.FromSearch{}}, nil
		}
	}
	return nil, nil
}

// Back moves one level up. It returns true when already at the top level.
func (n *NavigationService) Back(ctx context.Context) (bool, error) {
	switch n.view {
	case domain.ViewArtists:
		return true, nil

	case domain.ViewAlbums:
		n.artistID = ""
		n.show(domain.ViewArtists, n.titles[domain.ViewArtists])

	case domain.ViewSongs:
		if n.artistID == "" {
			n.albumID = ""
			if n.results.Len() > 0 {
				n.show(domain.ViewSearch, n.titles[domain.ViewSearch])
			} else {
				n.show(domain.ViewArtists, n.titles[domain.ViewArtists])
			}
			return false, nil
		}
		if n.albumsArtistID != n.artistID {
			albums, title, err := n.library.Albums(ctx, n.artistID)
			if err != nil {
				return false, err
			}
			n.albums = albums
			n.albumsArtistID = n.artistID
			n.titles[domain.ViewAlbums] = title
		}
		n.albumID = ""
		n.show(domain.ViewAlbums, n.titles[domain.ViewAlbums])

	case domain.ViewSearch:
		n.results = domain.SearchResults{}
		n.hits = nil
		n.show(domain.ViewArtists, n.titles[domain.ViewArtists])
	}
	return false, nil
}

// MoveUp moves the cursor up, wrapping to the last row.
func (n *NavigationService) MoveUp() {
	if size := n.size(); size > 0 {
		n.cursor = (n.cursor - 1 + size) % size
	}
}

// MoveDown moves the cursor down, wrapping to the first row.
func (n *NavigationService) MoveDown() {
	if size := n.size(); size > 0 {
		n.cursor = (n.cursor + 1) % size
	}
}

// MoveTop jumps to the first row.
func (n *NavigationService) MoveTop() {
	if n.size() > 0 {
		n.cursor = 0
	}
}

// MoveBottom jumps to the last row.
func (n *NavigationService) MoveBottom() {
	if size := n.size(); size > 0 {
		n.cursor = size - 1
	}
}

// BeginSearch routes input into an empty search buffer.
func (n *NavigationService) BeginSearch() {
	n.searching = true
	n.searchBuffer = n.searchBuffer[:0]
}

// SearchInput appends r to the search buffer.
func (n *NavigationService) SearchInput(r rune) {
	if n.searching {
		n.searchBuffer = append(n.searchBuffer, r)
	}
}

// SearchBackspace removes the last rune of the search buffer.
func (n *NavigationService) SearchBackspace() {
	if n.searching && len(n.searchBuffer) > 0 {
		n.searchBuffer = n.searchBuffer[:len(n.searchBuffer)-1]
	}
}

// CancelSearch leaves search input and discards the buffer.
func (n *NavigationService) CancelSearch() {
	n.searching = false
	n.searchBuffer = n.searchBuffer[:0]
}

// SubmitSearch leaves search input and runs the buffered query. A blank
// query behaves like CancelSearch. On failure the previous view stays.
func (n *NavigationService) SubmitSearch(ctx context.Context) error {
	query := strings.TrimSpace(string(n.searchBuffer))
	n.CancelSearch()
	if query == "" {
		return nil
	}

	results, title, err := n.library.Search(ctx, query)
	if err != nil {
		return err
	}

	n.results = results
	n.hits = results.Hits()
	n.artistID = ""
	n.albumID = ""
	n.show(domain.ViewSearch, title)
	return nil
}

// ToggleHelp shows or hides the help overlay.
func (n *NavigationService) ToggleHelp() {
	n.help = !n.help
}

// View returns the active view.
func (n *NavigationService) View() domain.ViewType {
	return n.view
}

// Title returns the title of the active view.
func (n *NavigationService) Title() string {
	return n.titles[n.view]
}

// Cursor returns the selected row, or -1 when the list is empty.
func (n *NavigationService) Cursor() int {
	return n.cursor
}

// ArtistID returns the artist being browsed, if any.
func (n *NavigationService) ArtistID() string {
	return n.artistID
}

// AlbumID returns the album being browsed, if any.
func (n *NavigationService) AlbumID() string {
	return n.albumID
}

// Searching reports whether input goes to the search buffer.
func (n *NavigationService) Searching() bool {
	return n.searching
}

// SearchBuffer returns the query typed so far.
func (n *NavigationService) SearchBuffer() string {
	return string(n.searchBuffer)
}

// HelpVisible reports whether the help overlay is open.
func (n *NavigationService) HelpVisible() bool {
	return n.help
}

// Rows returns the display labels of the active list.
func (n *NavigationService) Rows() []string {
	switch n.view {
	case domain.ViewArtists:
		return lo.Map(n.artists, func(a domain.Artist, _ int) string { return a.Name })
	case domain.ViewAlbums:
		return lo.Map(n.albums, func(a domain.Album, _ int) string { return a.Name })
	case domain.ViewSongs:
		return lo.Map(n.songs, func(t domain.Track, _ int) string { return t.DisplayTitle() })
	case domain.ViewSearch:
		return lo.Map(n.hits, func(h domain.SearchHit, _ int) string { return h.Label() })
	default:
		return nil
	}
}

// SelectedSong returns the highlighted song in the Songs view, or the
// highlighted song hit in the Search view.
func (n *NavigationService) SelectedSong() (domain.Track, bool) {
	if n.cursor < 0 {
		return domain.Track{}, false
	}
	switch n.view {
	case domain.ViewSongs:
		return n.songs[n.cursor], true
	case domain.ViewSearch:
		if hit, ok := n.hits[n.cursor].(domain.SongHit); ok {
			return hit.Track(), true
		}
	}
	return domain.Track{}, false
}

func (n *NavigationService) openArtist(ctx context.Context, artistID string) error {
	albums, title, err := n.library.Albums(ctx, artistID)
	if err != nil {
		return err
	}
	n.albums = albums
	n.artistID = artistID
	n.albumsArtistID = artistID
	n.show(domain.ViewAlbums, title)
	return nil
}

func (n *NavigationService) openAlbum(ctx context.Context, albumID, artistID string) error {
	songs, title, err := n.library.Songs(ctx, albumID)
	if err != nil {
		return err
	}
	n.songs = songs
	n.albumID = albumID
	n.artistID = artistID
	n.show(domain.ViewSongs, title)
	return nil
}

func (n *NavigationService) show(view domain.ViewType, title string) {
	n.view = view
	n.titles[view] = title
	n.cursor = -1
	if n.size() > 0 {
		n.cursor = 0
	}
	n.logger.Debug("view changed",
		slog.String("view", view.String()),
		slog.Int("rows", n.size()))
}

func (n *NavigationService) size() int {
	switch n.view {
	case domain.ViewArtists:
		return len(n.artists)
	case domain.ViewAlbums:
		return len(n.albums)
	case domain.ViewSongs:
		return len(n.songs)
	case domain.ViewSearch:
		return len(n.hits)
	default:
		return 0
	}
}
