// Package tags reads metadata embedded in downloaded audio streams.
package tags

import (
	"bytes"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tejashwikalptaru/subtune/internal/domain"
	"github.com/tejashwikalptaru/subtune/internal/ports"
)

// Reader implements ports.MetadataReader with dhowden/tag.
type Reader struct{}

// NewReader creates a new tag reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadTags parses ID3, FLAC, Ogg or MP4 tags from the stream.
func (r *Reader) ReadTags(data []byte) (domain.TrackTags, error) {
	metadata, err := tag.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return domain.TrackTags{}, err
	}

	tags := domain.TrackTags{
		Title:  strings.TrimSpace(metadata.Title()),
		Artist: strings.TrimSpace(metadata.Artist()),
		Album:  strings.TrimSpace(metadata.Album()),
	}
	if format := metadata.Format(); format != tag.UnknownFormat {
		tags.Format = string(format)
	}
	return tags, nil
}

var _ ports.MetadataReader = (*Reader)(nil)
