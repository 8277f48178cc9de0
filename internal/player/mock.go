// internal/player/mock.go
package player

import (
	"context"
	"sync"
	"time"

	"github.com/llehouerou/onair/internal/errmsg"
)

// Mock is a test double for Player. Prepare completes synchronously unless
// held: by the time it returns, the listener has seen the same callbacks, in
// the same order, as a real engine emits once a stream is ready.
type Mock struct {
	mu         sync.Mutex
	listener   Listener
	state      State
	url        string
	autoplay   bool
	startAt    time.Duration
	hold       bool
	position   time.Duration
	duration   time.Duration
	volume     float64
	muted      bool
	prepareErr error
	prepared   []Request
	seekCalls  []time.Duration
	releases   int
}

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{
		listener: nopListener{},
		state:    Stopped,
		duration: 3 * time.Minute,
		volume:   1,
	}
}

func (m *Mock) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	m.mu.Lock()
	m.listener = l
	m.mu.Unlock()
}

func (m *Mock) Prepare(_ context.Context, req Request) {
	m.mu.Lock()
	m.prepared = append(m.prepared, req)
	m.state = Preparing
	m.url = req.URL
	m.autoplay = req.Autoplay
	m.startAt = req.StartAt
	m.position = 0
	l, prepareErr, hold := m.listener, m.prepareErr, m.hold
	m.mu.Unlock()

	l.OnBuffering(true)
	l.OnPrepared(req.URL)
	if prepareErr != nil {
		m.mu.Lock()
		m.state = Stopped
		m.mu.Unlock()
		l.OnBuffering(false)
		l.OnError(errmsg.OpStreamOpen, prepareErr)
		return
	}
	if !hold {
		m.CompletePrepare()
	}
}

// CompletePrepare makes a preparing stream ready, as the end of a real load
// does.
func (m *Mock) CompletePrepare() {
	m.mu.Lock()
	if m.state != Preparing {
		m.mu.Unlock()
		return
	}
	if m.startAt > 0 && m.startAt < m.duration {
		m.position = m.startAt
	}
	if m.autoplay {
		m.state = Playing
	} else {
		m.state = Paused
	}
	l, pos, dur, autoplay := m.listener, m.position, m.duration, m.autoplay
	m.mu.Unlock()

	l.OnBuffering(false)
	l.OnProgress(dur, pos)
	l.OnDuration(FormatTimer(dur), FormatTimer(pos))
	if autoplay {
		l.OnPlay()
	} else {
		l.OnPause()
	}
}

func (m *Mock) Play() {
	m.mu.Lock()
	if m.state == Preparing && !m.autoplay {
		m.autoplay = true
		l := m.listener
		m.mu.Unlock()
		l.OnPlay()
		return
	}
	if m.state != Paused {
		m.mu.Unlock()
		return
	}
	m.state = Playing
	l := m.listener
	m.mu.Unlock()
	l.OnPlay()
}

func (m *Mock) Pause() {
	m.mu.Lock()
	if m.state == Preparing && m.autoplay {
		m.autoplay = false
		l := m.listener
		m.mu.Unlock()
		l.OnPause()
		return
	}
	if m.state != Playing {
		m.mu.Unlock()
		return
	}
	m.state = Paused
	l := m.listener
	m.mu.Unlock()
	l.OnPause()
}

func (m *Mock) Toggle() {
	m.mu.Lock()
	state, autoplay := m.state, m.autoplay
	m.mu.Unlock()

	switch {
	case state == Playing, state == Preparing && autoplay:
		m.Pause()
	case state == Paused, state == Preparing:
		m.Play()
	}
}

func (m *Mock) SeekTo(pos time.Duration) {
	m.mu.Lock()
	if !m.state.IsActive() {
		m.mu.Unlock()
		return
	}
	m.seekCalls = append(m.seekCalls, pos)
	m.position = min(max(pos, 0), m.duration)
	l, p, d := m.listener, m.position, m.duration
	m.mu.Unlock()
	l.OnProgress(d, p)
	l.OnDuration(FormatTimer(d), FormatTimer(p))
}

func (m *Mock) SeekBy(delta time.Duration) {
	m.SeekTo(m.Position() + delta)
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	m.volume = clampLevel(level)
	l, v, muted := m.listener, m.volume, m.muted
	m.mu.Unlock()
	l.OnVolume(v, muted)
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	l, v := m.listener, m.volume
	m.mu.Unlock()
	l.OnVolume(v, muted)
}

func (m *Mock) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.IsActive() {
		return 0
	}
	return m.duration
}

func (m *Mock) Release() {
	m.mu.Lock()
	m.releases++
	if m.state == Stopped {
		m.mu.Unlock()
		return
	}
	m.state = Stopped
	m.position = 0
	l := m.listener
	m.mu.Unlock()
	l.OnRelease()
}

// Test helpers

func (m *Mock) SetState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// HoldPrepare makes Prepare stop after reporting the stream as prepared,
// leaving the mock Preparing until CompletePrepare.
func (m *Mock) HoldPrepare(hold bool) {
	m.mu.Lock()
	m.hold = hold
	m.mu.Unlock()
}

// SetPrepareError makes the next Prepare calls fail with err.
func (m *Mock) SetPrepareError(err error) {
	m.mu.Lock()
	m.prepareErr = err
	m.mu.Unlock()
}

func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	m.mu.Unlock()
}

func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	m.position = d
	m.mu.Unlock()
}

// Prepared returns every Prepare request in call order.
func (m *Mock) Prepared() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.prepared...)
}

func (m *Mock) SeekCalls() []time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]time.Duration(nil), m.seekCalls...)
}

// Releases returns how many times Release was called.
func (m *Mock) Releases() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.releases
}

// SimulateEnd simulates the stream reaching its end.
func (m *Mock) SimulateEnd() {
	m.mu.Lock()
	if m.state != Playing {
		m.mu.Unlock()
		return
	}
	m.state = Paused
	m.position = 0
	l, d := m.listener, m.duration
	m.mu.Unlock()
	l.OnPause()
	l.OnProgress(d, 0)
	l.OnDuration(FormatTimer(d), FormatTimer(0))
}

// SimulateError simulates a failure while playing.
func (m *Mock) SimulateError(op errmsg.Op, err error) {
	m.mu.Lock()
	m.state = Stopped
	l := m.listener
	m.mu.Unlock()
	l.OnError(op, err)
}

// SimulateMetadata reports metadata as if read from the stream.
func (m *Mock) SimulateMetadata(md Metadata) {
	m.mu.Lock()
	l := m.listener
	m.mu.Unlock()
	l.OnMetadata(md)
}

// SimulateDownload reports download progress.
func (m *Mock) SimulateDownload(buffered, total int64) {
	m.mu.Lock()
	l := m.listener
	m.mu.Unlock()
	l.OnDownload(buffered, total)
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
