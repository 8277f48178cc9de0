package state

import (
	"context"
	"database/sql"
	"time"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	GetSession() (*Session, error)
	SaveSession(ctx context.Context, url string, position time.Duration) error
	ResumePosition(url string) time.Duration
	SavePosition(url string, position time.Duration)
	GetVolume() (*VolumeState, error)
	SaveVolume(volume float64, muted bool)
	RecordPlay(url, title, artist string)
	History(limit int) ([]HistoryEntry, error)
	Flush()
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
