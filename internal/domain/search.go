package domain

import (
	"fmt"
	"time"
)

// SearchHit is one row of a search result listing: an AlbumHit or a SongHit.
type SearchHit interface {
	// Label is the text rendered for the row, tagged [A] or [S].
	Label() string
	searchHit()
}

// AlbumHit is an album matched by a search.
type AlbumHit struct {
	ID       string
	Name     string
	Artist   string
	ArtistID string
}

// SongHit is a song matched by a search.
type SongHit struct {
	ID       string
	Title    string
	Artist   string
	AlbumID  string
	Album    string
	Duration time.Duration
}

func (AlbumHit) searchHit() {}
func (SongHit) searchHit()  {}

// Label implements SearchHit.
func (h AlbumHit) Label() string {
	return fmt.Sprintf("[A] %s - %s", h.Name, h.Artist)
}

// Label implements SearchHit.
func (h SongHit) Label() string {
	return fmt.Sprintf("[S] %s - %s", h.Title, h.Artist)
}

// Track converts the hit into a playable track.
func (h SongHit) Track() Track {
	return Track{
		ID:       h.ID,
		Title:    h.Title,
		AlbumID:  h.AlbumID,
		Artist:   h.Artist,
		Album:    h.Album,
		Duration: h.Duration,
	}
}

// SearchResults is what a search query returns.
type SearchResults struct {
	Albums []AlbumHit
	Songs  []SongHit
}

// Hits flattens the results into display order: albums first, then songs,
// each in the order the server returned them.
func (r SearchResults) Hits() []SearchHit {
	hits := make([]SearchHit, 0, len(r.Albums)+len(r.Songs))
	for _, a := range r.Albums {
		hits = append(hits, a)
	}
	for _, s := range r.Songs {
		hits = append(hits, s)
	}
	return hits
}

// Len returns the total number of hits.
func (r SearchResults) Len() int {
	return len(r.Albums) + len(r.Songs)
}

// SearchLimits bounds the number of results per category.
type SearchLimits struct {
	Artists int
	Albums  int
	Songs   int
}

// DefaultSearchLimits returns limits of n for every category.
func DefaultSearchLimits(n int) SearchLimits {
	return SearchLimits{Artists: n, Albums: n, Songs: n}
}
