package player

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const (
	oggHeaderSize = 27
	oggContinued  = 0x01
	// oggMaxPage is the largest page the format allows: a full segment
	// table of 255 segments of 255 bytes.
	oggMaxPage = oggHeaderSize + 255 + 255*255
)

var (
	errOggCapture = errors.New("ogg: missing capture pattern")
	errOggVersion = errors.New("ogg: unsupported stream structure version")
	errOggNoPage  = errors.New("ogg: no page with a granule position")
)

// oggPage is a parsed page header.
type oggPage struct {
	granule   int64 // -1 when no packet ends on the page
	continued bool
	segments  []byte
	size      int64 // header, segment table and body
}

func (pg *oggPage) bodySize() int {
	n := 0
	for _, s := range pg.segments {
		n += int(s)
	}
	return n
}

// readOggPageHeader parses the page header and segment table at the
// current position of r, leaving r at the start of the body.
func readOggPageHeader(r io.Reader) (*oggPage, error) {
	var hdr [oggHeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, err
	}
	if string(hdr[:4]) != "OggS" {
		return nil, errOggCapture
	}
	if hdr[4] != 0 {
		return nil, errOggVersion
	}
	pg := &oggPage{
		granule:   int64(binary.LittleEndian.Uint64(hdr[6:14])), //nolint:gosec // -1 marks pages without a granule
		continued: hdr[5]&oggContinued != 0,
		segments:  make([]byte, hdr[26]),
	}
	if _, err := io.ReadFull(r, pg.segments); err != nil {
		return nil, err
	}
	pg.size = int64(oggHeaderSize + len(pg.segments) + pg.bodySize())
	return pg, nil
}

// oggPackets reassembles the packets of a single logical bitstream from
// the pages read off r.
type oggPackets struct {
	r       io.Reader
	queue   [][]byte
	partial []byte
	// resync drops the tail of a packet whose start was never read.
	resync bool
}

func newOggPackets(r io.Reader) *oggPackets {
	return &oggPackets{r: r}
}

// next returns the next complete packet.
func (o *oggPackets) next() ([]byte, error) {
	for len(o.queue) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	pkt := o.queue[0]
	o.queue = o.queue[1:]
	return pkt, nil
}

// reset forgets buffered packets after r has been moved to a page start.
func (o *oggPackets) reset() {
	o.queue = nil
	o.partial = nil
	o.resync = true
}

func (o *oggPackets) readPage() error {
	pg, err := readOggPageHeader(o.r)
	if err != nil {
		return err
	}
	body := make([]byte, pg.bodySize())
	if _, err := io.ReadFull(o.r, body); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}

	if !pg.continued {
		o.partial = nil
		o.resync = false
	}
	first := true
	var pkt []byte
	off := 0
	for _, seg := range pg.segments {
		pkt = append(pkt, body[off:off+int(seg)]...)
		off += int(seg)
		if seg == 255 {
			continue
		}
		o.finish(pkt, first && pg.continued)
		first = false
		pkt = nil
	}
	if pkt == nil {
		return nil
	}
	// The last packet goes on in the next page.
	switch {
	case first && pg.continued && o.resync:
	case first && pg.continued:
		o.partial = append(o.partial, pkt...)
	default:
		o.partial = pkt
		o.resync = false
	}
	return nil
}

func (o *oggPackets) finish(pkt []byte, continued bool) {
	if continued {
		if o.resync {
			o.resync = false
			return
		}
		pkt = append(o.partial, pkt...)
	}
	o.partial = nil
	o.queue = append(o.queue, pkt)
}

// lastOggGranule returns the granule position of the last page of the
// size bytes of r.
func lastOggGranule(r io.ReaderAt, size int64) (int64, error) {
	n := min(size, int64(oggMaxPage))
	tail := make([]byte, n)
	if _, err := r.ReadAt(tail, size-n); err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	for i := bytes.LastIndex(tail, []byte("OggS")); i >= 0; i = bytes.LastIndex(tail[:i], []byte("OggS")) {
		pg, err := readOggPageHeader(bytes.NewReader(tail[i:]))
		if err != nil || pg.granule < 0 {
			continue
		}
		return pg.granule, nil
	}
	return 0, errOggNoPage
}

// findOggPage walks the pages of r from start and returns the offset of the
// page on which granule target ends, along with the granule reached before
// it. A target past the last page returns the last page.
func findOggPage(r io.ReaderAt, start, size, target int64) (offset, before int64, err error) {
	var reached int64
	off := start
	offset = start
	for off < size {
		pg, err := readOggPageHeader(io.NewSectionReader(r, off, oggHeaderSize+255))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return 0, 0, err
		}
		offset, before = off, reached
		if pg.granule >= target {
			return offset, before, nil
		}
		if pg.granule >= 0 {
			reached = pg.granule
		}
		off += pg.size
	}
	return offset, before, nil
}
