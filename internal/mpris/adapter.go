package mpris

import (
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/onair/internal/playback"
)

// Controls is the part of playback.Service the media session drives.
type Controls interface {
	Snapshot() playback.UiState
	Send(e playback.ControllerEvent)
	Activate()
	Position() time.Duration
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error {
	return nil // Not supported
}

func (r *rootAdapter) Quit() error {
	return nil // Not supported - app manages its own lifecycle
}

func (r *rootAdapter) CanQuit() (bool, error) {
	return false, nil
}

func (r *rootAdapter) CanRaise() (bool, error) {
	return false, nil
}

func (r *rootAdapter) HasTrackList() (bool, error) {
	return false, nil
}

func (r *rootAdapter) Identity() (string, error) {
	return "onair", nil
}

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file", "http", "https"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/mp3", "audio/flac", "audio/wav", "audio/x-wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter by turning
// calls into controller events and answering from the latest snapshot.
type playerAdapter struct {
	ctl Controls
}

// Next is a no-op: there is only one stream.
func (p *playerAdapter) Next() error {
	return nil
}

// Previous is a no-op: there is only one stream.
func (p *playerAdapter) Previous() error {
	return nil
}

func (p *playerAdapter) Pause() error {
	if s := p.ctl.Snapshot(); !s.Idle && s.Playing {
		p.ctl.Send(playback.PlayPause{})
	}
	return nil
}

func (p *playerAdapter) PlayPause() error {
	p.ctl.Activate()
	return nil
}

func (p *playerAdapter) Stop() error {
	p.ctl.Send(playback.Stop{})
	return nil
}

func (p *playerAdapter) Play() error {
	s := p.ctl.Snapshot()
	switch {
	case s.Idle:
		p.ctl.Activate()
	case !s.Playing:
		p.ctl.Send(playback.PlayPause{})
	}
	return nil
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	p.ctl.Send(playback.SeekBy{Delta: time.Duration(offset) * time.Microsecond})
	return nil
}

// SetPosition ignores requests for a track that is no longer current.
func (p *playerAdapter) SetPosition(trackID string, position types.Microseconds) error {
	s := p.ctl.Snapshot()
	if s.Idle || trackID != formatTrackID(s.URL) {
		return nil
	}
	p.ctl.Send(playback.SeekTo{Position: time.Duration(position) * time.Microsecond})
	return nil
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(uri string) error {
	if uri == "" {
		return errors.New("empty uri")
	}
	p.ctl.Send(playback.Prepare{URL: uri, Autoplay: true})
	return nil
}

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	switch p.ctl.Snapshot().Status() {
	case playback.StatePlaying, playback.StateBuffering:
		return types.PlaybackStatusPlaying, nil
	case playback.StatePaused:
		return types.PlaybackStatusPaused, nil
	case playback.StateIdle:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) SetRate(_ float64) error {
	return nil // Not supported
}

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	s := p.ctl.Snapshot()
	if s.URL == "" {
		return types.Metadata{}, nil
	}

	meta := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(s.URL)),
		Length:  types.Microseconds((time.Duration(s.MaxProgress) * time.Millisecond).Microseconds()),
		Title:   s.DisplayTitle(),
		Album:   s.Album,
	}
	if s.Artist != "" {
		meta.Artist = []string{s.Artist}
	}
	if s.ArtPath != "" {
		meta.ArtUrl = "file://" + s.ArtPath
	}

	return meta, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	s := p.ctl.Snapshot()
	if s.Muted {
		return 0, nil
	}
	return s.Volume, nil
}

func (p *playerAdapter) SetVolume(level float64) error {
	p.ctl.Send(playback.SetVolume{Level: level})
	return nil
}

func (p *playerAdapter) Position() (int64, error) {
	return p.ctl.Position().Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) MaximumRate() (float64, error) {
	return 1.0, nil
}

func (p *playerAdapter) CanGoNext() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanGoPrevious() (bool, error) {
	return false, nil
}

func (p *playerAdapter) CanPlay() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanPause() (bool, error) {
	return true, nil
}

func (p *playerAdapter) CanSeek() (bool, error) {
	return !p.ctl.Snapshot().Idle, nil
}

func (p *playerAdapter) CanControl() (bool, error) {
	return true, nil
}

func formatTrackID(url string) string {
	h := fnv.New64a()
	h.Write([]byte(url))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
