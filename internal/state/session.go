package state

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	dbutil "github.com/llehouerou/onair/internal/db"
)

// Session is the persisted playback session.
type Session struct {
	URL       string
	Position  time.Duration
	Volume    float64
	Muted     bool
	UpdatedAt time.Time
}

// VolumeState represents the saved volume state.
type VolumeState struct {
	Volume float64
	Muted  bool
}

// HistoryEntry is one played stream.
type HistoryEntry struct {
	URL      string
	Title    string
	Artist   string
	PlayedAt time.Time
}

// GetSession returns the saved session, or nil on first run.
func (m *Manager) GetSession() (*Session, error) {
	row := m.db.QueryRow(`
		SELECT url, position_ms, volume, muted, updated_at
		FROM session_state WHERE id = 1
	`)

	var s Session
	var positionMS int64
	var updatedAt sql.NullInt64
	err := row.Scan(&s.URL, &positionMS, &s.Volume, &s.Muted, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved session is valid on first run
	}
	if err != nil {
		return nil, err
	}

	s.Position = time.Duration(positionMS) * time.Millisecond
	if ms := dbutil.NullInt64Value(updatedAt); ms > 0 {
		s.UpdatedAt = time.UnixMilli(ms)
	}
	return &s, nil
}

// SaveSession stores url and position. A history entry is appended when
// the URL differs from the previous session.
func (m *Manager) SaveSession(ctx context.Context, url string, position time.Duration) error {
	now := m.now().UnixMilli()
	return dbutil.WithTx(ctx, m.db, func(tx *sql.Tx) error {
		var prev string
		err := tx.QueryRow(`SELECT url FROM session_state WHERE id = 1`).Scan(&prev)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		_, err = tx.Exec(`
			INSERT INTO session_state (id, url, position_ms, updated_at)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				url = excluded.url,
				position_ms = excluded.position_ms,
				updated_at = excluded.updated_at
		`, url, position.Milliseconds(), now)
		if err != nil {
			return err
		}

		if url == prev {
			return nil
		}
		return addHistory(tx, url, "", "", now)
	})
}

// GetVolume returns the saved volume state, including a save that is
// still pending.
func (m *Manager) GetVolume() (*VolumeState, error) {
	m.saveMu.Lock()
	pending := m.pendingVolume
	m.saveMu.Unlock()
	if pending != nil {
		v := *pending
		return &v, nil
	}

	var volume float64
	var muted bool

	row := m.db.QueryRow(`SELECT volume, muted FROM session_state WHERE id = 1`)
	err := row.Scan(&volume, &muted)
	if errors.Is(err, sql.ErrNoRows) {
		return &VolumeState{Volume: 1.0, Muted: false}, nil
	}
	if err != nil {
		return nil, err
	}

	return &VolumeState{Volume: volume, Muted: muted}, nil
}

func (m *Manager) writeVolume(volume float64, muted bool) error {
	_, err := m.db.Exec(`
		INSERT INTO session_state (id, volume, muted)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted
	`, volume, muted)
	return err
}

// RecordPlay attaches title and artist to the latest history entry of url,
// adding one if the stream has none yet. Failures are logged.
func (m *Manager) RecordPlay(url, title, artist string) {
	if url == "" {
		return
	}
	now := m.now().UnixMilli()
	err := dbutil.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		var latest string
		err := tx.QueryRow(`SELECT url FROM play_history ORDER BY id DESC LIMIT 1`).Scan(&latest)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if latest != url {
			return addHistory(tx, url, title, artist, now)
		}
		_, err = tx.Exec(`
			UPDATE play_history SET title = ?, artist = ?
			WHERE id = (SELECT MAX(id) FROM play_history)
		`, title, artist)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("url", url).Msg("record play")
	}
}

// History returns up to limit entries, most recent first.
func (m *Manager) History(limit int) ([]HistoryEntry, error) {
	rows, err := m.db.Query(`
		SELECT url, title, artist, played_at
		FROM play_history
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var title, artist sql.NullString
		var playedAt int64
		if err := rows.Scan(&e.URL, &title, &artist, &playedAt); err != nil {
			return nil, err
		}
		e.Title = dbutil.NullStringValue(title)
		e.Artist = dbutil.NullStringValue(artist)
		e.PlayedAt = time.UnixMilli(playedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func addHistory(tx *sql.Tx, url, title, artist string, playedAt int64) error {
	_, err := tx.Exec(`
		INSERT INTO play_history (url, title, artist, played_at)
		VALUES (?, NULLIF(?, ''), NULLIF(?, ''), ?)
	`, url, title, artist, playedAt)
	return err
}
