package ports

import (
	"context"

	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// LibraryClient is the interface to a Subsonic-compatible media server.
//
// All methods fail with a *domain.APIError describing connectivity, protocol
// or server-side failures.
type LibraryClient interface {
	// Ping checks connectivity and credentials.
	Ping(ctx context.Context) error

	// Artists returns the flattened artist index.
	Artists(ctx context.Context) ([]domain.Artist, error)

	// Albums returns the artist name and the artist's albums.
	Albums(ctx context.Context, artistID string) (string, []domain.Album, error)

	// Songs returns the album name and its songs in album order.
	Songs(ctx context.Context, albumID string) (string, []domain.Track, error)

	// Search runs a free-text query.
	Search(ctx context.Context, query string, limits domain.SearchLimits) (domain.SearchResults, error)

	// StreamURL returns an authenticated URL for streaming the song.
	StreamURL(trackID string) (string, error)

	// FetchStream downloads the encoded audio behind a stream URL.
	FetchStream(ctx context.Context, url string) ([]byte, error)
}
