package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/go-mp3"

	"github.com/llehouerou/onair/internal/source"
)

// mp3FrameBytes is the size of one decoded stereo frame: two 16-bit
// little-endian samples.
const mp3FrameBytes = 4

// errNotIndexed is returned by backward seeks on a stream whose download
// has not finished.
var errNotIndexed = errors.New("stream not indexed yet")

// progressive is implemented by decoders that can play a download as it
// arrives but only learn their length, and become seekable, once it ends.
type progressive interface {
	seekable() bool
	// buildIndex does the slow work off the audio lock and returns the
	// step that installs the result, run with the speaker locked.
	buildIndex() (install func() error, err error)
}

// mp3Stream adapts llehouerou/go-mp3 to beep.StreamSeekCloser. A complete
// source is indexed when the decoder is created, which gives
// sample-accurate seeking. An incomplete one is decoded as it arrives and
// indexed once the download ends.
type mp3Stream struct {
	dec     *mp3.Decoder
	src     source.Stream
	indexed bool
	pcm     []byte
	err     error
}

// decodeGoMP3 opens an MP3 decoder on src.
func decodeGoMP3(src source.Stream) (beep.StreamSeekCloser, beep.Format, error) {
	var r io.Reader = src
	_, complete := src.Ahead()
	if !complete {
		// go-mp3 scans every frame of a seekable reader up front.
		r = struct{ io.Reader }{src}
	}
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("mp3 decoder: %w", err)
	}
	rate := dec.SampleRate()
	if rate <= 0 {
		return nil, beep.Format{}, fmt.Errorf("%w: mp3 sample rate %d", ErrUnsupportedFormat, rate)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(rate),
		NumChannels: 2, // always stereo output
		Precision:   2,
	}
	return &mp3Stream{dec: dec, src: src, indexed: complete}, format, nil
}

// indexMP3 builds a seekable decoder over the downloaded bytes of src,
// without touching its read position.
func indexMP3(src source.Stream) (*mp3.Decoder, error) {
	size := src.Size()
	if size < 0 {
		return nil, errors.New("mp3: size unknown")
	}
	dec, err := mp3.NewDecoder(io.NewSectionReader(src, 0, size))
	if err != nil {
		return nil, fmt.Errorf("mp3 index: %w", err)
	}
	return dec, nil
}

func (s *mp3Stream) seekable() bool {
	return s.indexed
}

func (s *mp3Stream) buildIndex() (func() error, error) {
	dec, err := indexMP3(s.src)
	if err != nil {
		return nil, err
	}
	return func() error { return s.adopt(dec) }, nil
}

// adopt switches to the indexed decoder dec at the current position.
func (s *mp3Stream) adopt(dec *mp3.Decoder) error {
	if err := dec.SeekToSample(min(s.dec.SamplePosition(), dec.SampleCount())); err != nil {
		return err
	}
	s.dec = dec
	s.indexed = true
	s.err = nil
	return nil
}

// Stream implements beep.Streamer.
func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}

	want := len(samples) * mp3FrameBytes
	if cap(s.pcm) < want {
		s.pcm = make([]byte, want)
	}
	buf := s.pcm[:want]

	got, err := io.ReadFull(s.dec, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.err = err
		return 0, false
	}

	n := got / mp3FrameBytes
	for i := range n {
		frame := buf[i*mp3FrameBytes:]
		samples[i][0] = pcm16(frame[0:])
		samples[i][1] = pcm16(frame[2:])
	}
	return n, n > 0
}

func pcm16(b []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b))) / 32768 //nolint:gosec // audio samples
}

// Err implements beep.Streamer.
func (s *mp3Stream) Err() error {
	return s.err
}

// Len returns the total number of frames, or 0 until the stream is indexed.
func (s *mp3Stream) Len() int {
	if !s.indexed {
		return 0
	}
	return int(max(s.dec.SampleCount(), 0))
}

// Position returns the current frame.
func (s *mp3Stream) Position() int {
	return int(s.dec.SamplePosition())
}

// Seek moves to frame p, clamped to the stream. A successful seek clears a
// previous read error. Before the stream is indexed only forward moves
// work, by decoding up to p.
func (s *mp3Stream) Seek(p int) error {
	if !s.indexed {
		return s.skip(p)
	}
	p = min(max(p, 0), s.Len())
	if err := s.dec.SeekToSample(int64(p)); err != nil {
		return err
	}
	s.err = nil
	return nil
}

// skip decodes and drops frames up to p. Reaching the end means the
// download is over, so the stream is indexed and p is clamped to it.
func (s *mp3Stream) skip(p int) error {
	remaining := int64(p)*mp3FrameBytes - s.dec.SamplePosition()*mp3FrameBytes
	if remaining < 0 {
		return errNotIndexed
	}
	buf := make([]byte, 16*1024)
	for remaining > 0 {
		n, err := s.dec.Read(buf[:min(remaining, int64(len(buf)))])
		remaining -= int64(n)
		if errors.Is(err, io.EOF) {
			dec, err := indexMP3(s.src)
			if err != nil {
				return err
			}
			if err := s.adopt(dec); err != nil {
				return err
			}
			return s.Seek(p)
		}
		if err != nil {
			return err
		}
	}
	s.err = nil
	return nil
}

// Close closes the underlying source.
func (s *mp3Stream) Close() error {
	return s.src.Close()
}
