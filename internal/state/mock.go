package state

import (
	"context"
	"database/sql"
	"sync"
	"time"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu      sync.Mutex
	session *Session
	volume  *VolumeState
	history []HistoryEntry
	closed  bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) GetSession() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil //nolint:nilnil // mirrors Manager on first run
	}
	s := *m.session
	return &s, nil
}

func (m *Mock) SaveSession(_ context.Context, url string, position time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		m.session = &Session{Volume: 1}
	}
	if m.session.URL != url {
		m.history = append(m.history, HistoryEntry{URL: url})
	}
	m.session.URL = url
	m.session.Position = position
	return nil
}

func (m *Mock) ResumePosition(url string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.URL != url {
		return 0
	}
	return m.session.Position
}

func (m *Mock) SavePosition(url string, position time.Duration) {
	_ = m.SaveSession(context.Background(), url, position)
}

func (m *Mock) GetVolume() (*VolumeState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.volume == nil {
		return &VolumeState{Volume: 1.0}, nil
	}
	v := *m.volume
	return &v, nil
}

func (m *Mock) SaveVolume(volume float64, muted bool) {
	m.mu.Lock()
	m.volume = &VolumeState{Volume: volume, Muted: muted}
	m.mu.Unlock()
}

func (m *Mock) RecordPlay(url, title, artist string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.history); n > 0 && m.history[n-1].URL == url {
		m.history[n-1].Title = title
		m.history[n-1].Artist = artist
		return
	}
	m.history = append(m.history, HistoryEntry{URL: url, Title: title, Artist: artist})
}

func (m *Mock) History(limit int) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []HistoryEntry
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.history[i])
	}
	return out, nil
}

func (m *Mock) Flush() {}

func (m *Mock) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Test helpers

func (m *Mock) SetSession(s *Session) {
	m.mu.Lock()
	m.session = s
	m.mu.Unlock()
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
