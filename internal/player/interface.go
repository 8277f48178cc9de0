// internal/player/interface.go
package player

import (
	"context"
	"time"

	"github.com/llehouerou/onair/internal/errmsg"
)

// Interface defines the engine contract for dependency injection and testing.
//
// Prepare returns immediately; readiness, progress and failures are reported
// through the Listener. While a stream is preparing, Play, Pause and Toggle
// set whether it starts playing once ready. All other methods are no-ops
// when nothing is loaded.
type Interface interface {
	SetListener(l Listener)
	Prepare(ctx context.Context, req Request)
	Play()
	Pause()
	Toggle()
	SeekTo(pos time.Duration)
	SeekBy(delta time.Duration)
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
	State() State
	Position() time.Duration
	Duration() time.Duration
	Release()
}

// Listener receives engine notifications. Methods are called from engine
// goroutines (including the audio callback) and must not block or call back
// into the engine.
type Listener interface {
	OnPrepared(url string)
	OnPlay()
	OnPause()
	OnProgress(maxPos, current time.Duration)
	OnDuration(total, played string)
	OnBuffering(buffering bool)
	OnDownload(buffered, total int64)
	OnMetadata(m Metadata)
	OnVolume(level float64, muted bool)
	OnError(op errmsg.Op, err error)
	OnRelease()
}

// Request describes what to load.
type Request struct {
	URL      string
	Autoplay bool
	// StartAt is applied once the stream is ready. Ignored when beyond the end.
	StartAt time.Duration
}

// Metadata describes the prepared stream.
type Metadata struct {
	Title   string
	Artist  string
	Album   string
	ArtPath string // local PNG thumbnail, empty when the stream has no cover
}

type nopListener struct{}

func (nopListener) OnPrepared(string)                       {}
func (nopListener) OnPlay()                                 {}
func (nopListener) OnPause()                                {}
func (nopListener) OnProgress(time.Duration, time.Duration) {}
func (nopListener) OnDuration(string, string)               {}
func (nopListener) OnBuffering(bool)                        {}
func (nopListener) OnDownload(int64, int64)                 {}
func (nopListener) OnMetadata(Metadata)                     {}
func (nopListener) OnVolume(float64, bool)                  {}
func (nopListener) OnError(errmsg.Op, error)                {}
func (nopListener) OnRelease()                              {}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
