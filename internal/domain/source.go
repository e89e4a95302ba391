package domain

// PlaybackSource records why the current track was chosen, which decides what
// Next, Previous and a natural track finish do afterwards.
//
// The variant set is closed: FromQueue, FromAlbum, FromSearch and FromUnknown.
// A nil PlaybackSource means nothing is loaded with known provenance.
type PlaybackSource interface {
	playbackSource()
}

// FromQueue marks a track taken from the head of the play queue.
type FromQueue struct{}

// FromAlbum marks a track selected while browsing an album. Tracks is the
// full ordered album listing and Index the position of the current track.
type FromAlbum struct {
	Tracks []Track
	Index  int
}

// FromSearch marks a track selected from search results.
type FromSearch struct{}

// FromUnknown marks a track whose continuation behaviour is not known.
type FromUnknown struct{}

func (FromQueue) playbackSource()   {}
func (FromAlbum) playbackSource()   {}
func (FromSearch) playbackSource()  {}
func (FromUnknown) playbackSource() {}

// Current returns the track at Index, if the index is in range.
func (s FromAlbum) Current() (Track, bool) {
	if s.Index < 0 || s.Index >= len(s.Tracks) {
		return Track{}, false
	}
	return s.Tracks[s.Index], true
}

// At returns a copy of the source positioned at index. The track list is shared.
func (s FromAlbum) At(index int) FromAlbum {
	return FromAlbum{Tracks: s.Tracks, Index: index}
}

// SourceName returns a short label for logging.
func SourceName(src PlaybackSource) string {
	switch src.(type) {
	case nil:
		return "none"
	case FromQueue:
		return "queue"
	case FromAlbum:
		return "album"
	case FromSearch:
		return "search"
	case FromUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}
