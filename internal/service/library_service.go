package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// LibraryService loads browse listings from the media server and titles them.
type LibraryService struct {
	logger *slog.Logger
	client ports.LibraryClient
	titles *Titles
	limits domain.SearchLimits
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	logger *slog.Logger,
	client ports.LibraryClient,
	titles *Titles,
	limits domain.SearchLimits,
) *LibraryService {
	return &LibraryService{
		logger: logger,
		client: client,
		titles: titles,
		limits: limits,
	}
}

// Ping checks that the server is reachable and accepts the credentials.
func (s *LibraryService) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx); err != nil {
		return domain.NewServiceError("LibraryService", "Ping", domain.UserMessage(err), err)
	}
	return nil
}

// Artists loads the artist index.
func (s *LibraryService) Artists(ctx context.Context) ([]domain.Artist, string, error) {
	artists, err := s.client.Artists(ctx)
	if err != nil {
		s.logger.Warn("failed to load artists", slog.Any("error", err))
		return nil, "", err
	}
	s.logger.Debug("artists loaded", slog.Int("count", len(artists)))
	return artists, s.titles.Artists(), nil
}

// Albums loads the albums of an artist.
func (s *LibraryService) Albums(ctx context.Context, artistID string) ([]domain.Album, string, error) {
	name, albums, err := s.client.Albums(ctx, artistID)
	if err != nil {
		s.logger.Warn("failed to load albums", slog.String("artist_id", artistID), slog.Any("error", err))
		return nil, "", err
	}
	s.logger.Debug("albums loaded", slog.String("artist_id", artistID), slog.Int("count", len(albums)))
	return albums, s.titles.Albums(name), nil
}

// Songs loads the songs of an album in album order.
func (s *LibraryService) Songs(ctx context.Context, albumID string) ([]domain.Track, string, error) {
	name, songs, err := s.client.Songs(ctx, albumID)
	if err != nil {
		s.logger.Warn("failed to load songs", slog.String("album_id", albumID), slog.Any("error", err))
		return nil, "", err
	}
	s.logger.Debug("songs loaded", slog.String("album_id", albumID), slog.Int("count", len(songs)))
	return songs, s.titles.Songs(name), nil
}

// Search runs a query with the configured limits. Blank queries are rejected.
func (s *LibraryService) Search(ctx context.Context, query string) (domain.SearchResults, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResults{}, "", domain.ErrEmptyQuery
	}
	results, err := s.client.Search(ctx, query, s.limits)
	if err != nil {
		s.logger.Warn("search failed", slog.String("query", query), slog.Any("error", err))
		return domain.SearchResults{}, "", err
	}
	s.logger.Debug("search completed", slog.String("query", query), slog.Int("hits", results.Len()))
	return results, s.titles.Search(query, results.Len()), nil
}
