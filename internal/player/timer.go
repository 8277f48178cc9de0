package player

import (
	"fmt"
	"time"
)

// FormatTimer renders a duration as m:ss, or h:mm:ss from one hour up.
// Negative durations render as zero.
func FormatTimer(d time.Duration) string {
	ms := max(d.Milliseconds(), 0)
	hours := ms / 3_600_000
	minutes := ms % 3_600_000 / 60_000
	seconds := ms % 60_000 / 1000
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// poll reports progress every interval while playing, until stop is closed.
func (p *Player) poll(gen uint64, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			if gen == p.gen && p.state == Playing {
				p.reportLocked()
			}
			p.mu.Unlock()
		}
	}
}

// reportLocked emits the current position and duration. Called with p.mu held.
func (p *Player) reportLocked() {
	pos := p.positionLocked()
	dur := p.durationLocked()
	p.listener.OnProgress(dur, pos)
	p.listener.OnDuration(FormatTimer(dur), FormatTimer(pos))
}
