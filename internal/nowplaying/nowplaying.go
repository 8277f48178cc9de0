// Package nowplaying keeps a single desktop notification in sync with the
// playback state while the service runs.
package nowplaying

import (
	"context"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/onair/internal/errmsg"
	"github.com/llehouerou/onair/internal/notify"
	"github.com/llehouerou/onair/internal/playback"
)

// Action keys of the notification buttons.
const (
	ActionPlayPause = "playpause"
	ActionStop      = "stop"
)

const fallbackIcon = "audio-x-generic"

// Source is the slice of playback.Service the notification needs.
type Source interface {
	Subscribe() *playback.Subscription
	Unsubscribe(sub *playback.Subscription)
	Activate()
	Send(e playback.ControllerEvent)
}

// Options configures the notification.
type Options struct {
	// Timeout is passed to the notification server; 0 keeps it until closed.
	Timeout time.Duration
}

// Notifier mirrors UiState snapshots into one notification. Progress-only
// changes do not re-send it.
type Notifier struct {
	n       notify.Notifier
	src     Source
	timeout int32

	id   uint32
	last notify.Notification
	sent bool
}

// New creates a Notifier. Call Run to start it.
func New(n notify.Notifier, src Source, opts Options) *Notifier {
	return &Notifier{
		n:       n,
		src:     src,
		timeout: int32(opts.Timeout.Milliseconds()),
	}
}

// Run follows the state until ctx is done or the store shuts down, then
// closes the notification.
func (p *Notifier) Run(ctx context.Context) error {
	sub := p.src.Subscribe()
	defer p.src.Unsubscribe(sub)
	defer p.close()

	actions := p.n.Actions()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Done:
			return nil
		case s := <-sub.States:
			p.update(s)
		case a, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			p.invoke(a)
		}
	}
}

func (p *Notifier) update(s playback.UiState) {
	next := Render(s)
	next.Timeout = p.timeout
	if p.sent && sameContent(p.last, next) {
		return
	}

	next.ReplacesID = p.id
	id, err := p.n.Notify(next)
	if err != nil {
		log.Warn().Err(err).Msg(errmsg.Format(errmsg.OpNotify, err))
		return
	}
	p.id = id
	p.last = next
	p.sent = true
}

func (p *Notifier) invoke(a notify.ActionEvent) {
	if p.id == 0 || a.ID != p.id {
		return
	}
	log.Debug().Str("action", a.Key).Msg("notification action")
	switch a.Key {
	case ActionPlayPause, "default":
		p.src.Activate()
	case ActionStop:
		p.src.Send(playback.Stop{})
	}
}

func (p *Notifier) close() {
	if p.id == 0 {
		return
	}
	if err := p.n.Close(p.id); err != nil {
		log.Debug().Err(err).Msg("close notification")
	}
	p.id = 0
}

// Render builds the notification for a snapshot. ReplacesID and Timeout
// are left to the caller.
func Render(s playback.UiState) notify.Notification {
	n := notify.Notification{
		Title:    s.DisplayTitle(),
		Icon:     s.ArtPath,
		Urgency:  notify.UrgencyLow,
		Resident: true,
	}
	if n.Title == "" {
		n.Title = "onair"
	}
	if n.Icon == "" {
		n.Icon = fallbackIcon
	}

	status := statusText(s.Status())
	switch {
	case s.Error != "":
		n.Body = s.Error
		n.Urgency = notify.UrgencyNormal
	case s.Artist != "":
		n.Body = s.Artist + " · " + status
	default:
		n.Body = status
	}

	label := "Play"
	if s.Playing {
		label = "Pause"
	}
	n.Actions = []notify.Action{{Key: ActionPlayPause, Label: label}}
	if !s.Idle {
		n.Actions = append(n.Actions, notify.Action{Key: ActionStop, Label: "Stop"})
	}
	return n
}

func statusText(st playback.State) string {
	switch st {
	case playback.StateBuffering:
		return "Buffering…"
	case playback.StatePlaying:
		return "Playing"
	case playback.StatePaused:
		return "Paused"
	case playback.StateIdle:
		return "Stopped"
	}
	return ""
}

func sameContent(a, b notify.Notification) bool {
	return a.Title == b.Title &&
		a.Body == b.Body &&
		a.Icon == b.Icon &&
		a.Urgency == b.Urgency &&
		slices.Equal(a.Actions, b.Actions)
}
