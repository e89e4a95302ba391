// Package subsonic implements the LibraryClient port for servers speaking
// the Subsonic REST API (Navidrome, Airsonic, Gonic).
package subsonic

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

const (
	// APIVersion is the protocol version sent with every request.
	APIVersion = "1.16.1"

	// ClientName identifies this application to the server.
	ClientName = "subtune"

	saltLength = 8
)

// Client talks to a Subsonic server using token authentication.
// A fresh salt is generated for every request.
type Client struct {
	logger *slog.Logger
	http   *http.Client
	// stream has no overall timeout: a long track on a slow link may take
	// longer than any API call. Downloads are bounded by the caller's context.
	stream   *http.Client
	baseURL  string
	username string
	password string
}

// NewClient creates a client from the user configuration.
func NewClient(logger *slog.Logger, cfg domain.Config) *Client {
	return &Client{
		logger:   logger,
		http:     &http.Client{Timeout: cfg.RequestTimeout()},
		stream:   &http.Client{},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
	}
}

// token returns md5(password + salt) in lowercase hex.
func token(password, salt string) string {
	sum := md5.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

func (c *Client) authParams() url.Values {
	salt := lo.RandomString(saltLength, lo.AlphanumericCharset)
	return url.Values{
		"u": {c.username},
		"t": {token(c.password, salt)},
		"s": {salt},
		"v": {APIVersion},
		"c": {ClientName},
		"f": {"json"},
	}
}

func (c *Client) endpointURL(endpoint string, params url.Values) string {
	q := c.authParams()
	for k, vs := range params {
		q[k] = vs
	}
	return fmt.Sprintf("%s/rest/%s?%s", c.baseURL, endpoint, q.Encode())
}

// call performs a GET against endpoint and unwraps the response envelope.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values) (*response, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL(endpoint, params), nil)
	if err != nil {
		return nil, domain.NewAPIError(domain.APIConnectivity, endpoint, 0, "invalid server URL", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, domain.NewAPIError(domain.APIConnectivity, endpoint, 0, "server unreachable", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewAPIError(domain.APIConnectivity, endpoint, resp.StatusCode,
			"unexpected HTTP status "+resp.Status, nil)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, domain.NewAPIError(domain.APIProtocol, endpoint, 0, "invalid response format", err)
	}
	if env.Response == nil {
		return nil, domain.NewAPIError(domain.APIProtocol, endpoint, 0, "missing subsonic-response", nil)
	}
	if env.Response.Status != "ok" {
		msg, code := "Unknown error", 0
		if env.Response.Error != nil {
			code = env.Response.Error.Code
			if env.Response.Error.Message != "" {
				msg = env.Response.Error.Message
			}
		}
		return nil, domain.NewAPIError(domain.APIServer, endpoint, code, msg, nil)
	}
	return env.Response, nil
}

// Ping checks connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.call(ctx, "ping", nil)
	return err
}

// Artists returns every artist of every index letter, in server order.
func (c *Client) Artists(ctx context.Context) ([]domain.Artist, error) {
	resp, err := c.call(ctx, "getArtists", nil)
	if err != nil {
		return nil, err
	}
	if resp.Artists == nil {
		return nil, domain.NewAPIError(domain.APIProtocol, "getArtists", 0, "missing artists", nil)
	}

	artists := lo.FlatMap(resp.Artists.Index, func(idx indexEntry, _ int) []artistJSON {
		return idx.Artist
	})
	return lo.Map(artists, func(a artistJSON, _ int) domain.Artist {
		return domain.Artist{ID: a.ID, Name: a.Name}
	}), nil
}

// Albums returns the artist's name and albums.
func (c *Client) Albums(ctx context.Context, artistID string) (string, []domain.Album, error) {
	resp, err := c.call(ctx, "getArtist", url.Values{"id": {artistID}})
	if err != nil {
		return "", nil, err
	}
	if resp.Artist == nil {
		return "", nil, domain.NewAPIError(domain.APIProtocol, "getArtist", 0, "missing artist", nil)
	}

	albums := lo.Map(resp.Artist.Album, func(a albumJSON, _ int) domain.Album {
		return domain.Album{ID: a.ID, Name: a.Name, ArtistID: lo.CoalesceOrEmpty(a.ArtistID, artistID)}
	})
	return resp.Artist.Name, albums, nil
}

// Songs returns the album's name and songs. Songs without an album name
// inherit the album's.
func (c *Client) Songs(ctx context.Context, albumID string) (string, []domain.Track, error) {
	resp, err := c.call(ctx, "getAlbum", url.Values{"id": {albumID}})
	if err != nil {
		return "", nil, err
	}
	if resp.Album == nil {
		return "", nil, domain.NewAPIError(domain.APIProtocol, "getAlbum", 0, "missing album", nil)
	}

	album := resp.Album
	tracks := lo.Map(album.Song, func(s songJSON, _ int) domain.Track {
		t := toTrack(s)
		t.Album = lo.CoalesceOrEmpty(t.Album, album.Name)
		t.AlbumID = lo.CoalesceOrEmpty(t.AlbumID, album.ID)
		return t
	})
	return album.Name, tracks, nil
}

// Search runs search3 and returns album and song hits.
func (c *Client) Search(ctx context.Context, query string, limits domain.SearchLimits) (domain.SearchResults, error) {
	resp, err := c.call(ctx, "search3", url.Values{
		"query":       {query},
		"artistCount": {strconv.Itoa(limits.Artists)},
		"albumCount":  {strconv.Itoa(limits.Albums)},
		"songCount":   {strconv.Itoa(limits.Songs)},
	})
	if err != nil {
		return domain.SearchResults{}, err
	}
	if resp.SearchResult3 == nil {
		return domain.SearchResults{}, nil
	}

	return domain.SearchResults{
		Albums: lo.Map(resp.SearchResult3.Album, func(a albumJSON, _ int) domain.AlbumHit {
			return domain.AlbumHit{ID: a.ID, Name: a.Name, Artist: a.Artist, ArtistID: a.ArtistID}
		}),
		Songs: lo.Map(resp.SearchResult3.Song, func(s songJSON, _ int) domain.SongHit {
			return domain.SongHit{
				ID:       s.ID,
				Title:    s.Title,
				Artist:   s.Artist,
				AlbumID:  s.AlbumID,
				Album:    s.Album,
				Duration: time.Duration(s.Duration) * time.Second,
			}
		}),
	}, nil
}

// StreamURL returns an authenticated stream URL asking the server for mp3.
func (c *Client) StreamURL(trackID string) (string, error) {
	if trackID == "" {
		return "", domain.NewValidationError("id", trackID, "must not be empty")
	}
	return c.endpointURL("stream", url.Values{"id": {trackID}, "format": {"mp3"}}), nil
}

// FetchStream downloads the whole stream into memory.
func (c *Client) FetchStream(ctx context.Context, streamURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, domain.NewAPIError(domain.APIConnectivity, "stream", 0, "invalid stream URL", err)
	}
	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, domain.NewAPIError(domain.APIConnectivity, "stream", 0, "server unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewAPIError(domain.APIConnectivity, "stream", resp.StatusCode,
			"unexpected HTTP status "+resp.Status, nil)
	}

	// Subsonic reports stream errors as a JSON body with a 200 status.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Response != nil && env.Response.Error != nil {
			return nil, domain.NewAPIError(domain.APIServer, "stream", env.Response.Error.Code, env.Response.Error.Message, nil)
		}
		return nil, domain.NewAPIError(domain.APIProtocol, "stream", 0, "unexpected JSON stream body", nil)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewAPIError(domain.APIConnectivity, "stream", 0, "stream interrupted", err)
	}
	c.logger.Debug("stream fetched", slog.Int("bytes", len(data)))
	return data, nil
}

func toTrack(s songJSON) domain.Track {
	return domain.Track{
		ID:       s.ID,
		Title:    s.Title,
		AlbumID:  s.AlbumID,
		Artist:   s.Artist,
		Album:    s.Album,
		Duration: time.Duration(s.Duration) * time.Second,
	}
}

var _ ports.LibraryClient = (*Client)(nil)
