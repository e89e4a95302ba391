// Package beepsink implements the AudioSink port on top of gopxl/beep.
package beepsink

import (
	"bytes"
	"math"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
	"github.com/tejashwikalptaru/subtune/internal/domain"
)

// Container formats recognised by DetectFormat.
const (
	FormatMP3     = "mp3"
	FormatWAV     = "wav"
	FormatFLAC    = "flac"
	FormatOgg     = "ogg"
	FormatUnknown = ""
)

// DetectFormat sniffs the container format from the leading bytes of data.
func DetectFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("ID3")):
		return FormatMP3
	case len(data) >= 12 && bytes.Equal(data[:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return FormatWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return FormatFLAC
	case bytes.HasPrefix(data, []byte("OggS")):
		return FormatOgg
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return FormatMP3
	default:
		return FormatUnknown
	}
}

// decode turns an encoded stream into a seekable PCM streamer.
func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	if len(data) == 0 {
		return nil, beep.Format{}, domain.NewAudioEngineError("decode", "empty stream", domain.ErrUnsupportedFormat)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch DetectFormat(data) {
	case FormatWAV:
		streamer, format, err = wav.Decode(bytes.NewReader(data))
	case FormatMP3, FormatUnknown:
		streamer, format, err = mp3.Decode(nopCloser{bytes.NewReader(data)})
	default:
		return nil, beep.Format{}, domain.NewAudioEngineError("decode",
			"unsupported audio format "+DetectFormat(data)+" (enable mp3 transcoding on the server)",
			domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, beep.Format{}, domain.NewAudioEngineError("decode", err.Error(), domain.ErrUnsupportedFormat)
	}
	return streamer, format, nil
}

// gain converts a linear volume in [0, 1] to the base-2 exponent used by
// effects.Volume. Zero volume is handled by Silent instead.
func gain(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	return math.Log2(min(volume, 1))
}

func clampVolume(volume float64) float64 {
	if math.IsNaN(volume) {
		return 0
	}
	return min(max(volume, 0), 1)
}

// nopCloser wraps a bytes.Reader to implement io.ReadCloser.
type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
