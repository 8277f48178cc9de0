package player

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/wav"

	"github.com/llehouerou/onair/internal/source"
	"github.com/llehouerou/onair/internal/tags"
)

// ErrUnsupportedFormat is returned when a stream is not MP3, FLAC, WAV or
// Ogg Vorbis.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// ErrNoURL is reported when playback is requested without a stream URL.
var ErrNoURL = errors.New("no stream URL")

type audioFormat int

const (
	formatUnknown audioFormat = iota
	formatMP3
	formatFLAC
	formatWAV
	formatOgg
)

func (f audioFormat) String() string {
	switch f {
	case formatMP3:
		return "MP3"
	case formatFLAC:
		return "FLAC"
	case formatWAV:
		return "WAV"
	case formatOgg:
		return "Ogg"
	default:
		return "unknown"
	}
}

// sniffSize is how many leading bytes detectFormat looks at.
const sniffSize = 12

// detectFormat identifies the container from magic bytes, falling back to
// the announced content type, then to the file extension. head starts after
// any ID3v2 tag.
func detectFormat(contentType, name string, head []byte) audioFormat {
	switch {
	case len(head) >= 4 && string(head[:4]) == "fLaC":
		return formatFLAC
	case len(head) >= 12 && string(head[:4]) == "RIFF" && string(head[8:12]) == "WAVE":
		return formatWAV
	case len(head) >= 4 && string(head[:4]) == "OggS":
		return formatOgg
	case len(head) >= 2 && head[0] == 0xFF && head[1]&0xE0 == 0xE0:
		return formatMP3
	}

	switch strings.ToLower(contentType) {
	case "audio/mpeg", "audio/mp3", "audio/mpeg3", "audio/x-mpeg":
		return formatMP3
	case "audio/flac", "audio/x-flac":
		return formatFLAC
	case "audio/wav", "audio/x-wav", "audio/wave", "audio/vnd.wave":
		return formatWAV
	case "audio/ogg", "audio/vorbis", "application/ogg":
		return formatOgg
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case tags.ExtMP3:
		return formatMP3
	case tags.ExtFLAC:
		return formatFLAC
	case tags.ExtWAV:
		return formatWAV
	case tags.ExtOGG, tags.ExtOGA:
		return formatOgg
	}
	return formatUnknown
}

// decode sniffs src and returns a seekable decoder. Closing the decoder
// closes src.
func decode(src source.Stream) (beep.StreamSeekCloser, beep.Format, error) {
	header, err := src.Prefix(10)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("read header: %w", err)
	}
	skip := tags.ID3Size(header)

	head, err := src.Prefix(skip + sniffSize)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("read header: %w", err)
	}
	head = head[min(skip, len(head)):]

	kind := detectFormat(src.ContentType(), src.Name(), head)
	switch kind {
	case formatMP3:
		// go-mp3 skips ID3v2 tags itself.
		return decodeGoMP3(src)
	case formatFLAC:
		// Skip ID3v2 tag if present (some taggers add it to FLAC files)
		return flac.Decode(newOffsetReader(src, int64(skip)))
	case formatWAV:
		return wav.Decode(newOffsetReader(src, int64(skip)))
	case formatOgg:
		return decodeOgg(src)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w (content type %q, name %q)",
			ErrUnsupportedFormat, src.ContentType(), src.Name())
	}
}

// offsetReader hides the first off bytes of a ReadSeekCloser.
type offsetReader struct {
	rs  io.ReadSeekCloser
	off int64
	pos int64
	set bool
}

func newOffsetReader(rs io.ReadSeekCloser, off int64) io.ReadSeekCloser {
	if off == 0 {
		return rs
	}
	return &offsetReader{rs: rs, off: off}
}

func (o *offsetReader) Read(p []byte) (int, error) {
	if !o.set {
		if _, err := o.rs.Seek(o.off+o.pos, io.SeekStart); err != nil {
			return 0, err
		}
		o.set = true
	}
	n, err := o.rs.Read(p)
	o.pos += int64(n)
	return n, err
}

func (o *offsetReader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = o.off + offset
	case io.SeekCurrent:
		abs = o.off + o.pos + offset
	case io.SeekEnd:
		end, err := o.rs.Seek(offset, io.SeekEnd)
		if err != nil {
			return 0, err
		}
		abs = end
	default:
		return 0, errors.New("seek: invalid whence")
	}
	if abs < o.off {
		return 0, errors.New("seek: before start of audio data")
	}
	if _, err := o.rs.Seek(abs, io.SeekStart); err != nil {
		return 0, err
	}
	o.pos = abs - o.off
	o.set = true
	return o.pos, nil
}

func (o *offsetReader) Close() error {
	return o.rs.Close()
}
