package player

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/onair/internal/source"
)

const (
	rampRate           = 1000
	rampPages          = 10
	rampPacketsPerPage = 4
	rampPacketSamples  = 100
	rampLength         = rampPages * rampPacketsPerPage * rampPacketSamples
)

// buildOggPage wraps body in a page header with the given lacing values.
// The checksum is left at zero.
func buildOggPage(flags byte, granule int64, lacing, body []byte) []byte {
	page := make([]byte, oggHeaderSize, oggHeaderSize+len(lacing)+len(body))
	copy(page, "OggS")
	page[5] = flags
	binary.LittleEndian.PutUint64(page[6:14], uint64(granule))
	binary.LittleEndian.PutUint32(page[14:18], 1)
	page[26] = byte(len(lacing))
	page = append(page, lacing...)
	return append(page, body...)
}

// packetPage laces complete packets into one page.
func packetPage(granule int64, packets ...[]byte) []byte {
	var lacing, body []byte
	for _, pkt := range packets {
		n := len(pkt)
		for ; n >= 255; n -= 255 {
			lacing = append(lacing, 255)
		}
		lacing = append(lacing, byte(n))
		body = append(body, pkt...)
	}
	return buildOggPage(0, granule, lacing, body)
}

// rampCodec decodes packets holding a start sample and a count into mono
// samples whose value is their own position.
type rampCodec struct{}

func detectRamp(first []byte) (oggCodec, error) {
	if string(first) != "ramp" {
		return nil, errUnknownOggCodec
	}
	return &rampCodec{}, nil
}

func (c *rampCodec) sampleRate() int { return rampRate }
func (c *rampCodec) channels() int   { return 1 }
func (c *rampCodec) preSkip() int64  { return 0 }
func (c *rampCodec) reset()          {}

func (c *rampCodec) header(pkt []byte) (bool, error) {
	return string(pkt) == "setup", nil
}

func (c *rampCodec) decode(pkt []byte, pcm []float32) ([]float32, error) {
	start := binary.LittleEndian.Uint32(pkt)
	n := binary.LittleEndian.Uint16(pkt[4:])
	for i := range uint32(n) {
		pcm = append(pcm, float32(start+i))
	}
	return pcm, nil
}

// rampOgg returns a stream of rampPages audio pages after two header pages.
func rampOgg() []byte {
	b := packetPage(0, []byte("ramp"))
	b = append(b, packetPage(0, []byte("setup"))...)
	for page := range rampPages {
		var pkts [][]byte
		for i := range rampPacketsPerPage {
			pkt := make([]byte, 6)
			binary.LittleEndian.PutUint32(pkt, uint32((page*rampPacketsPerPage+i)*rampPacketSamples))
			binary.LittleEndian.PutUint16(pkt[4:], rampPacketSamples)
			pkts = append(pkts, pkt)
		}
		b = append(b, packetPage(int64((page+1)*rampPacketsPerPage*rampPacketSamples), pkts...)...)
	}
	return b
}

func openBytes(t *testing.T, name string, data []byte) source.Stream {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	src, err := source.Open(context.Background(), path, source.Options{})
	require.NoError(t, err)
	return src
}

func firstSample(t *testing.T, s interface {
	Stream([][2]float64) (int, bool)
},
) float64 {
	t.Helper()
	buf := make([][2]float64, 1)
	n, ok := s.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 1, n)
	return buf[0][0]
}

func TestOggPackets_JoinsPacketAcrossPages(t *testing.T) {
	long := bytes.Repeat([]byte{'x'}, 255)
	var b []byte
	b = append(b, buildOggPage(0, 0, []byte{2, 255}, append([]byte("ab"), long...))...)
	b = append(b, buildOggPage(oggContinued, 10, []byte{3}, []byte("yz!"))...)
	b = append(b, packetPage(20, []byte("next"))...)

	o := newOggPackets(bytes.NewReader(b))
	var got []string
	for {
		pkt, err := o.next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, string(pkt))
	}
	assert.Equal(t, []string{"ab", string(long) + "yz!", "next"}, got)
}

func TestOggPackets_ResetDropsPacketTail(t *testing.T) {
	var b []byte
	b = append(b, buildOggPage(oggContinued, 10, []byte{3, 4}, []byte("endnext"))...)
	b = append(b, packetPage(20, []byte("last"))...)

	o := newOggPackets(bytes.NewReader(b))
	o.reset()
	pkt, err := o.next()
	require.NoError(t, err)
	assert.Equal(t, "next", string(pkt))
	pkt, err = o.next()
	require.NoError(t, err)
	assert.Equal(t, "last", string(pkt))
}

func TestOggPackets_TruncatedPage(t *testing.T) {
	page := packetPage(0, []byte("complete"))
	o := newOggPackets(bytes.NewReader(page[:len(page)-2]))
	_, err := o.next()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestLastOggGranule(t *testing.T) {
	b := rampOgg()
	got, err := lastOggGranule(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	assert.Equal(t, int64(rampLength), got)

	// A trailing page on which no packet ends carries no granule.
	b = append(b, buildOggPage(0, -1, []byte{255}, make([]byte, 255))...)
	got, err = lastOggGranule(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	assert.Equal(t, int64(rampLength), got)

	_, err = lastOggGranule(bytes.NewReader([]byte("not ogg")), 7)
	assert.ErrorIs(t, err, errOggNoPage)
}

func TestFindOggPage(t *testing.T) {
	b := rampOgg()
	headers := int64(len(packetPage(0, []byte("ramp"))) + len(packetPage(0, []byte("setup"))))
	pageSize := int64(len(b)-int(headers)) / rampPages
	r := bytes.NewReader(b)
	size := int64(len(b))

	off, before, err := findOggPage(r, headers, size, 0)
	require.NoError(t, err)
	assert.Equal(t, headers, off)
	assert.Equal(t, int64(0), before)

	off, before, err = findOggPage(r, headers, size, 2150)
	require.NoError(t, err)
	assert.Equal(t, headers+5*pageSize, off)
	assert.Equal(t, int64(2000), before)

	off, before, err = findOggPage(r, headers, size, rampLength+1)
	require.NoError(t, err)
	assert.Equal(t, headers+(rampPages-1)*pageSize, off)
	assert.Equal(t, int64(rampLength-rampPacketsPerPage*rampPacketSamples), before)
}

func TestDecodeOgg_PlaysAndSeeks(t *testing.T) {
	src := openBytes(t, "ramp.ogg", rampOgg())
	s, format, err := decodeOggWith(src, detectRamp)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 1000, int(format.SampleRate))
	assert.Equal(t, rampLength, s.Len())

	buf := make([][2]float64, 150)
	n, ok := s.Stream(buf)
	require.True(t, ok)
	require.Equal(t, 150, n)
	for i := range n {
		require.InDelta(t, float64(i), buf[i][0], 0)
		require.InDelta(t, buf[i][0], buf[i][1], 0, "mono is played on both sides")
	}
	assert.Equal(t, 150, s.Position())

	require.NoError(t, s.Seek(2150))
	assert.Equal(t, 2150, s.Position())
	assert.InDelta(t, 2150, firstSample(t, s), 0)

	require.NoError(t, s.Seek(0))
	assert.InDelta(t, 0, firstSample(t, s), 0)

	require.NoError(t, s.Seek(rampLength+500))
	assert.Equal(t, rampLength, s.Position())
	n, ok = s.Stream(buf)
	assert.Equal(t, 0, n)
	assert.False(t, ok)
	require.NoError(t, s.Err())
}

func TestDecodeOgg_IndexesWhenDownloaded(t *testing.T) {
	srv, release := halfServer(t, rampOgg())
	src, err := source.Open(context.Background(), srv.URL+"/episode.ogg", source.Options{})
	require.NoError(t, err)

	s, _, err := decodeOggWith(src, detectRamp)
	require.NoError(t, err)
	defer s.Close()

	ps, ok := s.(progressive)
	require.True(t, ok)
	assert.False(t, ps.seekable())
	assert.Equal(t, 0, s.Len())

	// Forward moves decode through what has arrived.
	require.NoError(t, s.Seek(250))
	assert.InDelta(t, 250, firstSample(t, s), 0)
	require.ErrorIs(t, s.Seek(100), errNotIndexed)

	release()
	select {
	case <-src.Downloaded():
	case <-time.After(5 * time.Second):
		t.Fatal("download never completed")
	}
	install, err := ps.buildIndex()
	require.NoError(t, err)
	require.NoError(t, install())

	assert.True(t, ps.seekable())
	assert.Equal(t, rampLength, s.Len())
	require.NoError(t, s.Seek(100))
	assert.InDelta(t, 100, firstSample(t, s), 0)
}

func TestDecode_OggCodecs(t *testing.T) {
	t.Run("unknown codec", func(t *testing.T) {
		src := openBytes(t, "episode.opus", packetPage(0, []byte("OpusHead\x01\x02\x38\x01\x80\xbb\x00\x00\x00\x00\x00")))
		defer src.Close()
		_, _, err := decode(src)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("short vorbis header", func(t *testing.T) {
		src := openBytes(t, "episode.ogg", packetPage(0, []byte("\x01vorbis\x00")))
		defer src.Close()
		_, _, err := decode(src)
		assert.ErrorIs(t, err, errInvalidVorbisHeader)
	})

	t.Run("missing headers", func(t *testing.T) {
		ident := []byte("\x01vorbis")
		ident = binary.LittleEndian.AppendUint32(ident, 0)
		ident = append(ident, 2)
		ident = binary.LittleEndian.AppendUint32(ident, 44100)
		ident = binary.LittleEndian.AppendUint32(ident, 0)
		ident = binary.LittleEndian.AppendUint32(ident, 128000)
		ident = binary.LittleEndian.AppendUint32(ident, 0)
		ident = append(ident, 0xB8, 0x01) // block sizes 256 and 2048, framing bit
		src := openBytes(t, "episode.ogg", packetPage(0, ident))
		defer src.Close()
		_, _, err := decode(src)
		assert.ErrorIs(t, err, io.EOF)
	})
}
