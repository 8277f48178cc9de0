package playback

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/onair/internal/errmsg"
	"github.com/llehouerou/onair/internal/player"
)

// SessionStore persists what is needed to resume a stream across runs.
// A nil SessionStore disables resume.
type SessionStore interface {
	ResumePosition(url string) time.Duration
	SavePosition(url string, position time.Duration)
	SaveVolume(level float64, muted bool)
	RecordPlay(url, title, artist string)
}

// Options configures a Service.
type Options struct {
	// URL is prepared by Activate when nothing has been prepared yet.
	URL      string
	Sessions SessionStore
	Resume   bool
}

// Service binds the engine, the controller channel and the state store. It
// is the long-lived owner of playback: UI surfaces come and go, the service
// keeps running until its context is cancelled.
type Service struct {
	engine player.Interface
	store  *Store
	ctrl   *Controller
	opts   Options

	mu  sync.Mutex
	url string // last prepared URL, or Options.URL before the first prepare
}

// NewService wires engine callbacks into a new store.
func NewService(engine player.Interface, opts Options) *Service {
	initial := Empty
	initial.Volume = engine.Volume()
	initial.Muted = engine.Muted()

	s := &Service{
		engine: engine,
		store:  NewStore(initial),
		ctrl:   NewController(),
		opts:   opts,
		url:    opts.URL,
	}
	engine.SetListener(&engineListener{s: s})
	return s
}

// Send enqueues a controller event.
func (s *Service) Send(e ControllerEvent) {
	s.ctrl.Send(e)
}

// Activate is the primary gesture: prepare and play when idle, otherwise
// toggle play/pause. The engine state decides on the controller goroutine,
// so gestures queued while a stream is buffering never start a second load.
func (s *Service) Activate() {
	s.ctrl.Send(PlayPause{})
}

// URL returns the URL that Activate would prepare.
func (s *Service) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Snapshot returns the current UI state.
func (s *Service) Snapshot() UiState {
	return s.store.Snapshot()
}

// Subscribe registers an observer of UI state snapshots.
func (s *Service) Subscribe() *Subscription {
	return s.store.Subscribe()
}

// Unsubscribe removes an observer.
func (s *Service) Unsubscribe(sub *Subscription) {
	s.store.Unsubscribe(sub)
}

// Position returns the live engine position, which may be ahead of the
// last published snapshot.
func (s *Service) Position() time.Duration {
	return s.engine.Position()
}

// Run consumes controller events in order until ctx is done, then saves the
// session and releases the engine.
func (s *Service) Run(ctx context.Context) error {
	storeDone := make(chan struct{})
	go func() {
		s.store.Run(ctx)
		close(storeDone)
	}()

	for {
		e, ok := s.ctrl.Next(ctx)
		if !ok {
			break
		}
		s.handle(ctx, e)
	}
	if n := s.ctrl.Pending(); n > 0 {
		log.Debug().Int("pending", n).Msg("controller events dropped at shutdown")
	}

	if s.opts.Sessions != nil && s.engine.State().IsActive() {
		s.opts.Sessions.SavePosition(s.URL(), s.engine.Position())
	}
	s.engine.Release()
	<-storeDone
	return nil
}

func (s *Service) handle(ctx context.Context, e ControllerEvent) {
	switch e := e.(type) {
	case Prepare:
		s.prepare(ctx, e)
	case PlayPause:
		if s.engine.State() == player.Stopped {
			// Nothing loaded (stopped or failed): start over with the last URL.
			s.prepare(ctx, Prepare{URL: s.URL(), Autoplay: true})
			return
		}
		// While preparing this picks whether playback starts once ready.
		s.engine.Toggle()
	case SeekTo:
		s.engine.SeekTo(e.Position)
	case SeekBy:
		s.engine.SeekBy(e.Delta)
	case SetVolume:
		s.engine.SetVolume(e.Level)
	case ToggleMute:
		s.engine.SetMuted(!s.engine.Muted())
	case Stop:
		if s.opts.Sessions != nil && s.engine.State().IsActive() {
			s.opts.Sessions.SavePosition(s.URL(), s.engine.Position())
		}
		s.engine.Release()
		s.store.Push(
			SetIdle{Idle: true},
			SetBuffering{Buffering: false},
			ChangeProgress{},
			ChangeDuration{},
		)
	}
}

func (s *Service) prepare(ctx context.Context, e Prepare) {
	if e.URL == "" {
		s.store.Push(Fail{Message: errmsg.Format(errmsg.OpStreamOpen, player.ErrNoURL)})
		return
	}

	s.mu.Lock()
	s.url = e.URL
	s.mu.Unlock()

	var startAt time.Duration
	if s.opts.Resume && s.opts.Sessions != nil {
		startAt = s.opts.Sessions.ResumePosition(e.URL)
	}

	log.Info().Str("url", e.URL).Bool("autoplay", e.Autoplay).Dur("start_at", startAt).Msg("prepare")
	s.store.Push(ClearError{}, SetMetadata{}, ChangeProgress{}, ChangeDuration{})
	s.engine.Prepare(ctx, player.Request{
		URL:      e.URL,
		Autoplay: e.Autoplay,
		StartAt:  startAt,
	})
}

// engineListener turns engine callbacks into playback events.
type engineListener struct {
	s *Service
}

func (l *engineListener) OnPrepared(url string) {
	l.s.store.Push(SetIdle{Idle: false}, SetURL{URL: url})
}

func (l *engineListener) OnPlay() {
	l.s.store.Push(Play{})
}

func (l *engineListener) OnPause() {
	l.s.store.Push(Pause{})
}

func (l *engineListener) OnProgress(maxPos, current time.Duration) {
	l.s.store.Push(ChangeProgress{
		Max:     int(maxPos.Milliseconds()),
		Current: int(current.Milliseconds()),
	})
	if l.s.opts.Sessions != nil {
		l.s.opts.Sessions.SavePosition(l.s.URL(), current)
	}
}

func (l *engineListener) OnDuration(total, played string) {
	l.s.store.Push(ChangeDuration{Total: total, Played: played})
}

func (l *engineListener) OnBuffering(buffering bool) {
	l.s.store.Push(SetBuffering{Buffering: buffering})
}

func (l *engineListener) OnDownload(buffered, total int64) {
	l.s.store.Push(ChangeDownload{Buffered: buffered, Total: total})
}

func (l *engineListener) OnMetadata(m player.Metadata) {
	l.s.store.Push(SetMetadata{
		Title:   m.Title,
		Artist:  m.Artist,
		Album:   m.Album,
		ArtPath: m.ArtPath,
	})
	if l.s.opts.Sessions != nil {
		l.s.opts.Sessions.RecordPlay(l.s.URL(), m.Title, m.Artist)
	}
}

func (l *engineListener) OnVolume(level float64, muted bool) {
	l.s.store.Push(ChangeVolume{Level: level, Muted: muted})
	if l.s.opts.Sessions != nil {
		l.s.opts.Sessions.SaveVolume(level, muted)
	}
}

func (l *engineListener) OnError(op errmsg.Op, err error) {
	log.Error().Err(err).Str("op", string(op)).Str("url", l.s.URL()).Msg("playback failed")
	l.s.store.Push(
		Fail{Message: errmsg.Format(op, err)},
		Pause{},
		SetBuffering{Buffering: false},
		SetIdle{Idle: true},
	)
}

func (l *engineListener) OnRelease() {
	l.s.store.Push(Pause{})
}
