// Package source opens audio streams for the player. Remote streams are
// downloaded progressively: reads past what has arrived so far block until
// the bytes are there, so a decoder can start before the download ends.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrUnsupportedScheme is returned for URLs that are neither http(s) nor files.
var ErrUnsupportedScheme = errors.New("unsupported URL scheme")

// ErrClosed is returned by reads on a closed source.
var ErrClosed = errors.New("source closed")

const userAgent = "onair/1.0 (https://github.com/llehouerou/onair)"

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected HTTP status: " + e.Status
}

// Options carries the callbacks of a source. Callbacks run on the download
// goroutine or the reading goroutine and must not block.
type Options struct {
	// OnBuffering is called when a read starts or stops waiting for data.
	OnBuffering func(buffering bool)
	// OnProgress reports downloaded bytes and the total size (-1 if unknown).
	OnProgress func(buffered, total int64)
	// Client overrides the HTTP client used for remote streams.
	Client *http.Client
}

// Stream is an opened audio source.
type Stream interface {
	io.ReadSeekCloser
	io.ReaderAt
	// ContentType is the media type announced by the server, if any.
	ContentType() string
	// Name is the last path element, used for extension-based detection.
	Name() string
	// Prefix returns up to n bytes from the start of the stream, waiting for
	// them to be downloaded.
	Prefix(n int) ([]byte, error)
	// Ahead returns how many bytes are readable without blocking, and
	// whether the whole stream is available.
	Ahead() (n int64, complete bool)
	// Size returns the total size, or -1 while it is unknown.
	Size() int64
	// Downloaded is closed once every byte of the stream is available.
	Downloaded() <-chan struct{}
}

// Open opens rawURL. HTTP responses are checked before Open returns; the
// body is then downloaded in the background until the stream is closed.
func Open(ctx context.Context, rawURL string, opts Options) (Stream, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return openHTTP(ctx, u, opts)
	case "file":
		return openFile(u.Path)
	case "":
		return openFile(rawURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

// IsLocal reports whether rawURL refers to a local file.
func IsLocal(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	s := strings.ToLower(u.Scheme)
	return s == "" || s == "file"
}

// LocalPath returns the filesystem path of a local URL.
func LocalPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err == nil && strings.EqualFold(u.Scheme, "file") {
		return u.Path
	}
	return rawURL
}

func openHTTP(ctx context.Context, u *url.URL, opts Options) (Stream, error) {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}

	dlCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(dlCtx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("http request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		cancel()
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	contentType := resp.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mt
	}

	s := &httpStream{
		name:        filepath.Base(u.Path),
		contentType: contentType,
		total:       resp.ContentLength,
		opts:        opts,
		cancel:      cancel,
		done:        make(chan struct{}),
		completed:   make(chan struct{}),
	}
	s.cond = sync.NewCond(&s.mu)
	go s.download(resp.Body)
	return s, nil
}

// local is closed from the start: files are always fully available.
var local = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

type fileStream struct {
	*os.File
	size int64
}

func openFile(path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if fi.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &fileStream{File: f, size: fi.Size()}, nil
}

func (f *fileStream) ContentType() string { return "" }

func (f *fileStream) Name() string { return filepath.Base(f.File.Name()) }

func (f *fileStream) Size() int64 { return f.size }

func (f *fileStream) Ahead() (int64, bool) { return f.size, true }

func (f *fileStream) Downloaded() <-chan struct{} { return local }

func (f *fileStream) Prefix(n int) ([]byte, error) {
	buf := make([]byte, min(int64(n), f.size))
	read, err := f.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:read], nil
}
