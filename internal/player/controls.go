package player

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/llehouerou/onair/internal/errmsg"
)

// seekSettle is how long audio stays muted after a seek, to let the
// device buffer drain the samples from before the jump.
const seekSettle = 100 * time.Millisecond

// Play resumes a paused stream. After the end of the stream, playback
// restarts from the current position.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Preparing {
		if !p.autoplay {
			p.autoplay = true
			p.listener.OnPlay()
		}
		return
	}
	if p.state != Paused || p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()
	if p.ended {
		p.ended = false
		p.out.Play(p.sequenceLocked(p.gen))
	}
	p.state = Playing
	p.listener.OnPlay()
}

// Pause pauses playback and reports the position once, since the poller
// stays quiet while paused.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Preparing {
		if p.autoplay {
			p.autoplay = false
			p.listener.OnPause()
		}
		return
	}
	if p.state != Playing || p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()
	p.state = Paused
	p.listener.OnPause()
	p.reportLocked()
}

// Toggle toggles between playing and paused states.
func (p *Player) Toggle() {
	p.mu.Lock()
	state, autoplay := p.state, p.autoplay
	p.mu.Unlock()

	switch state {
	case Playing:
		p.Pause()
	case Paused:
		p.Play()
	case Preparing:
		if autoplay {
			p.Pause()
		} else {
			p.Play()
		}
	case Stopped:
		// Nothing to toggle
	}
}

// SeekTo moves playback to pos, clamped to the stream.
// Non-blocking: sends to a channel, dropping old requests if one is pending.
func (p *Player) SeekTo(pos time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A stream still downloading may not know its length yet.
	dur := p.durationLocked()
	if !p.state.IsActive() || p.seekChan == nil || dur == 0 {
		return
	}
	pos = min(max(pos, 0), dur)

	// Non-blocking send - drop if channel full (previous seek pending)
	select {
	case p.seekChan <- pos:
	default:
		// Channel full, drain and send new value
		select {
		case <-p.seekChan:
		default:
		}
		select {
		case p.seekChan <- pos:
		default:
		}
	}
}

// SeekBy moves playback by delta from the current position.
func (p *Player) SeekBy(delta time.Duration) {
	p.SeekTo(p.Position() + delta)
}

// seekLoop processes seek requests sequentially.
// Only the most recent seek is processed, older ones are dropped.
func (p *Player) seekLoop(gen uint64, seeks <-chan time.Duration, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case pos := <-seeks:
			p.doSeek(gen, pos, stop)
		}
	}
}

// doSeek mutes, seeks, waits for the device buffer to drain and unmutes.
func (p *Player) doSeek(gen uint64, pos time.Duration, stop <-chan struct{}) {
	p.mu.Lock()
	if gen != p.gen || p.streamer == nil {
		p.mu.Unlock()
		return
	}

	p.out.Lock()
	p.volume.Silent = true
	err := p.streamer.Seek(p.format.SampleRate.N(pos))
	p.out.Unlock()
	if err != nil {
		log.Warn().Err(err).Dur("position", pos).Msg(errmsg.Format(errmsg.OpPlaybackSeek, err))
	}
	p.reportLocked()
	p.mu.Unlock()

	select {
	case <-stop:
		return
	case <-time.After(seekSettle):
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// Re-check after the wait: the stream may have been released or replaced
	if gen != p.gen || p.volume == nil {
		return
	}
	p.out.Lock()
	p.volume.Silent = p.muted
	p.out.Unlock()
}
