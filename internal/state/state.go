// Package state persists the playback session in SQLite: the last stream
// and position for resume, the volume, and a history of played streams.
package state

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog/log"

	dbutil "github.com/llehouerou/onair/internal/db"
	"github.com/llehouerou/onair/internal/errmsg"
)

const (
	appName      = "onair"
	dbFileName   = "onair.db"
	saveDebounce = 500 * time.Millisecond
)

type pendingPosition struct {
	url      string
	position time.Duration
}

type Manager struct {
	db            *sql.DB
	now           func() time.Time
	saveMu        sync.Mutex
	saveTimer     *time.Timer
	pending       *pendingPosition
	pendingVolume *VolumeState
}

// Open opens the database at $XDG_DATA_HOME/onair/onair.db.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens the database at path (dbutil.Memory for tests).
func OpenPath(path string) (*Manager, error) {
	db, err := dbutil.Open(path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, now: time.Now}, nil
}

// Close flushes pending writes and closes the database.
func (m *Manager) Close() error {
	m.Flush()
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SavePosition records the position of url. Writes are debounced; the
// latest position wins.
func (m *Manager) SavePosition(url string, position time.Duration) {
	if url == "" {
		return
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &pendingPosition{url: url, position: position}
	m.scheduleLocked()
}

// SaveVolume records the volume level. Writes are debounced like positions,
// so callers on the audio path never wait for the database.
func (m *Manager) SaveVolume(volume float64, muted bool) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pendingVolume = &VolumeState{Volume: volume, Muted: muted}
	m.scheduleLocked()
}

// scheduleLocked restarts the debounce timer. Called with saveMu held.
func (m *Manager) scheduleLocked() {
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, m.Flush)
}

// Flush writes pending position and volume immediately.
func (m *Manager) Flush() {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
		m.saveTimer = nil
	}
	pending, volume := m.pending, m.pendingVolume
	m.pending, m.pendingVolume = nil, nil
	m.saveMu.Unlock()

	if pending != nil {
		err := m.SaveSession(context.Background(), pending.url, pending.position)
		if err != nil {
			log.Error().Err(err).Str("url", pending.url).Msg(errmsg.Format(errmsg.OpSessionSave, err))
		}
	}
	if volume != nil {
		if err := m.writeVolume(volume.Volume, volume.Muted); err != nil {
			log.Error().Err(err).Msg(errmsg.Format(errmsg.OpPlaybackVolume, err))
		}
	}
}

// ResumePosition returns the saved position of url, or 0 when the last
// session was a different stream.
func (m *Manager) ResumePosition(url string) time.Duration {
	m.saveMu.Lock()
	pending := m.pending
	m.saveMu.Unlock()
	if pending != nil && pending.url == url {
		return pending.position
	}

	s, err := m.GetSession()
	if err != nil {
		log.Error().Err(err).Msg(errmsg.Format(errmsg.OpSessionLoad, err))
		return 0
	}
	if s == nil || s.URL != url {
		return 0
	}
	return s.Position
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
