package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

const chunkSize = 32 * 1024

// httpStream holds the downloaded bytes in memory and serves reads from
// them. Only one reader is expected.
type httpStream struct {
	name        string
	contentType string
	opts        Options
	cancel      context.CancelFunc
	done        chan struct{}

	mu        sync.Mutex
	cond      *sync.Cond
	buf       []byte
	total     int64 // -1 until known
	pos       int64
	complete  bool
	err       error // download error, reported once the buffer is exhausted
	closed    bool
	waiters   int // reads blocked on data that has not arrived yet
	completed chan struct{}
}

func (s *httpStream) download(body io.ReadCloser) {
	defer close(s.done)
	defer body.Close()

	chunk := make([]byte, chunkSize)
	for {
		n, err := body.Read(chunk)

		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.buf = append(s.buf, chunk[:n]...)
		buffered := int64(len(s.buf))
		if err != nil {
			s.complete = true
			if !errors.Is(err, io.EOF) {
				s.err = fmt.Errorf("download: %w", err)
			}
			s.total = buffered
			close(s.completed)
		}
		total := s.total
		s.cond.Broadcast()
		s.mu.Unlock()

		if n > 0 || err != nil {
			s.progress(buffered, total)
		}
		if err != nil {
			return
		}
	}
}

func (s *httpStream) progress(buffered, total int64) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(buffered, total)
	}
}

func (s *httpStream) setBuffering(b bool) {
	if s.opts.OnBuffering != nil {
		s.opts.OnBuffering(b)
	}
}

// wait blocks until ready returns true or the stream is closed. Buffering
// is reported when the first reader starts waiting and when the last one
// stops. Called with s.mu held.
func (s *httpStream) wait(ready func() bool) {
	if s.closed || ready() {
		return
	}
	s.waiters++
	if s.waiters == 1 {
		s.setBuffering(true)
	}
	for !s.closed && !ready() {
		s.cond.Wait()
	}
	s.waiters--
	if s.waiters == 0 {
		s.setBuffering(false)
	}
}

// waitFor blocks until offset end is downloaded, the download ends or the
// stream is closed. Called with s.mu held.
func (s *httpStream) waitFor(end int64) {
	s.wait(func() bool {
		return s.complete || int64(len(s.buf)) >= end
	})
}

func (s *httpStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.waitFor(s.pos + 1)
	if s.closed {
		return 0, ErrClosed
	}
	if s.pos >= int64(len(s.buf)) {
		if s.err != nil {
			return 0, s.err
		}
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *httpStream) Seek(offset int64, whence int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		s.wait(func() bool { return s.total >= 0 })
		if s.closed {
			return 0, ErrClosed
		}
		abs = s.total + offset
	default:
		return 0, errors.New("seek: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	s.pos = abs
	return abs, nil
}

// Close stops the download and wakes any blocked reader.
func (s *httpStream) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cond.Broadcast()
	s.mu.Unlock()

	s.cancel()
	<-s.done
	return nil
}

func (s *httpStream) ContentType() string { return s.contentType }

func (s *httpStream) Name() string { return s.name }

func (s *httpStream) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *httpStream) Ahead() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return max(int64(len(s.buf))-s.pos, 0), s.complete
}

// ReadAt reads from the downloaded bytes without moving the read position,
// waiting like Read for bytes that have not arrived.
func (s *httpStream) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, errors.New("read at: negative offset")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.waitFor(off + int64(len(p)))
	if s.closed {
		return 0, ErrClosed
	}
	if off >= int64(len(s.buf)) {
		if s.err != nil {
			return 0, s.err
		}
		return 0, io.EOF
	}
	n := copy(p, s.buf[off:])
	if n < len(p) {
		if s.err != nil {
			return n, s.err
		}
		return n, io.EOF
	}
	return n, nil
}

func (s *httpStream) Downloaded() <-chan struct{} { return s.completed }

func (s *httpStream) Prefix(n int) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.waitFor(int64(n))
	if s.closed {
		return nil, ErrClosed
	}
	end := min(n, len(s.buf))
	if end == 0 && s.err != nil {
		return nil, s.err
	}
	out := make([]byte, end)
	copy(out, s.buf[:end])
	return out, nil
}
