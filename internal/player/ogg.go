package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/jfreymuth/vorbis"

	"github.com/llehouerou/onair/internal/source"
)

var (
	errUnknownOggCodec     = fmt.Errorf("%w: ogg codec is not Vorbis", ErrUnsupportedFormat)
	errInvalidVorbisHeader = errors.New("vorbis: invalid identification header")
)

// oggCodec decodes the packets of one Ogg logical bitstream.
type oggCodec interface {
	sampleRate() int
	channels() int
	// preSkip is the number of leading samples that are not played.
	preSkip() int64
	// header consumes a header packet and reports whether decoding can
	// start.
	header(pkt []byte) (done bool, err error)
	// decode appends the interleaved samples of pkt to pcm.
	decode(pkt []byte, pcm []float32) ([]float32, error)
	// reset drops decoder state after a seek.
	reset()
}

// detectOggCodec picks the codec from the first packet of a stream.
func detectOggCodec(first []byte) (oggCodec, error) {
	if len(first) >= 7 && first[0] == 0x01 && string(first[1:7]) == "vorbis" {
		return newVorbisCodec(first)
	}
	return nil, errUnknownOggCodec
}

type vorbisCodec struct {
	dec  vorbis.Decoder
	rate int
	ch   int
}

// newVorbisCodec reads the identification header:
// packet type, "vorbis", version (0), channels, sample rate.
func newVorbisCodec(ident []byte) (*vorbisCodec, error) {
	if len(ident) < 16 || binary.LittleEndian.Uint32(ident[7:11]) != 0 || ident[11] == 0 {
		return nil, errInvalidVorbisHeader
	}
	c := &vorbisCodec{
		rate: int(binary.LittleEndian.Uint32(ident[12:16])),
		ch:   int(ident[11]),
	}
	if err := c.dec.ReadHeader(ident); err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidVorbisHeader, err)
	}
	return c, nil
}

func (c *vorbisCodec) sampleRate() int { return c.rate }
func (c *vorbisCodec) channels() int   { return c.ch }
func (c *vorbisCodec) preSkip() int64  { return 0 }

// header takes the comment then the setup header.
func (c *vorbisCodec) header(pkt []byte) (bool, error) {
	if err := c.dec.ReadHeader(pkt); err != nil {
		return false, err
	}
	return c.dec.HeadersRead(), nil
}

func (c *vorbisCodec) decode(pkt []byte, pcm []float32) ([]float32, error) {
	out, err := c.dec.Decode(pkt)
	if err != nil {
		return pcm, err
	}
	return append(pcm, out...), nil
}

func (c *vorbisCodec) reset() {
	c.dec.Clear()
}

// oggStream adapts an oggCodec to beep.StreamSeekCloser. Positions are in
// granule units, the codec's sample clock. A stream whose download has not
// finished plays as it arrives and learns its length once the download
// ends.
type oggStream struct {
	src       source.Stream
	codec     oggCodec
	packets   *oggPackets
	ch        int
	dataStart int64
	length    int64 // -1 until indexed

	pcm    []float32
	pcmPos int
	// raw is the granule of the next buffered sample. Samples before from
	// are dropped.
	raw  int64
	from int64
	err  error
}

// decodeOgg opens an Ogg Vorbis decoder on src.
func decodeOgg(src source.Stream) (beep.StreamSeekCloser, beep.Format, error) {
	return decodeOggWith(src, detectOggCodec)
}

func decodeOggWith(src source.Stream, detect func([]byte) (oggCodec, error)) (beep.StreamSeekCloser, beep.Format, error) {
	packets := newOggPackets(src)
	first, err := packets.next()
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("ogg: read first packet: %w", err)
	}
	codec, err := detect(first)
	if err != nil {
		return nil, beep.Format{}, err
	}
	for done := false; !done; {
		pkt, err := packets.next()
		if err != nil {
			return nil, beep.Format{}, fmt.Errorf("ogg: read headers: %w", err)
		}
		if done, err = codec.header(pkt); err != nil {
			return nil, beep.Format{}, fmt.Errorf("ogg: %w", err)
		}
	}
	if codec.sampleRate() <= 0 || codec.channels() <= 0 {
		return nil, beep.Format{}, fmt.Errorf("%w: ogg %d Hz, %d channels",
			ErrUnsupportedFormat, codec.sampleRate(), codec.channels())
	}

	// Audio starts on a fresh page after the headers.
	dataStart, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s := &oggStream{
		src:       src,
		codec:     codec,
		packets:   packets,
		ch:        codec.channels(),
		dataStart: dataStart,
		length:    -1,
		from:      codec.preSkip(),
	}
	if _, complete := src.Ahead(); complete {
		install, err := s.buildIndex()
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := install(); err != nil {
			return nil, beep.Format{}, err
		}
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(codec.sampleRate()),
		NumChannels: min(s.ch, 2),
		Precision:   2,
	}
	return s, format, nil
}

func (s *oggStream) seekable() bool {
	return s.length >= 0
}

func (s *oggStream) buildIndex() (func() error, error) {
	last, err := lastOggGranule(s.src, s.src.Size())
	if err != nil {
		return nil, err
	}
	n := max(last-s.codec.preSkip(), 0)
	return func() error {
		s.length = n
		return nil
	}, nil
}

// Stream implements beep.Streamer. Mono is played on both sides; channels
// past the second are dropped.
func (s *oggStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if s.pcmPos >= len(s.pcm) {
			if err := s.decodeNext(); err != nil {
				if !errors.Is(err, io.EOF) {
					s.err = err
				}
				break
			}
			continue
		}
		if s.raw < s.from {
			s.dropBuffered()
			continue
		}
		frame := s.pcm[s.pcmPos:]
		samples[n][0] = float64(frame[0])
		samples[n][1] = samples[n][0]
		if s.ch > 1 {
			samples[n][1] = float64(frame[1])
		}
		s.pcmPos += s.ch
		s.raw++
		n++
	}
	return n, n > 0
}

// decodeNext refills the buffer from the next packet. Undecodable packets
// are skipped.
func (s *oggStream) decodeNext() error {
	for {
		pkt, err := s.packets.next()
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return io.EOF
		}
		if err != nil {
			return err
		}
		pcm, err := s.codec.decode(pkt, s.pcm[:0])
		if err != nil {
			continue
		}
		s.pcm = pcm[:len(pcm)-len(pcm)%s.ch]
		s.pcmPos = 0
		return nil
	}
}

func (s *oggStream) dropBuffered() {
	k := min(int64(len(s.pcm)-s.pcmPos)/int64(s.ch), s.from-s.raw)
	s.pcmPos += int(k) * s.ch
	s.raw += k
}

// discard decodes and drops samples up to from.
func (s *oggStream) discard() error {
	for s.raw < s.from {
		if s.pcmPos >= len(s.pcm) {
			if err := s.decodeNext(); err != nil {
				return err
			}
			continue
		}
		s.dropBuffered()
	}
	return nil
}

// Err implements beep.Streamer.
func (s *oggStream) Err() error {
	return s.err
}

// Len returns the total number of frames, or 0 until the stream is indexed.
func (s *oggStream) Len() int {
	return int(max(s.length, 0))
}

// Position returns the current frame.
func (s *oggStream) Position() int {
	return int(max(s.raw-s.codec.preSkip(), 0))
}

// Seek moves to frame p, clamped to the stream. Before the stream is
// indexed only forward moves work, by decoding up to p.
func (s *oggStream) Seek(p int) error {
	skip := s.codec.preSkip()
	if s.length < 0 {
		if p < s.Position() {
			return errNotIndexed
		}
		s.from = int64(p) + skip
		if err := s.discard(); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		s.err = nil
		return nil
	}

	target := min(max(int64(p), 0), s.length) + skip
	off, before, err := findOggPage(s.src, s.dataStart, s.src.Size(), target)
	if err != nil {
		return err
	}
	if _, err := s.src.Seek(off, io.SeekStart); err != nil {
		return err
	}
	s.packets.reset()
	s.codec.reset()
	s.pcm = s.pcm[:0]
	s.pcmPos = 0
	s.raw = before
	s.from = target
	s.err = nil
	if err := s.discard(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Close closes the underlying source.
func (s *oggStream) Close() error {
	return s.src.Close()
}
