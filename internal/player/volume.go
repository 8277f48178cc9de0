package player

import "math"

// silentGain is the beep gain used for level 0. beep.Volume has no true
// silence short of Silent; 2^-10 is inaudible.
const silentGain = -10

// SetVolume stores level, clamped to [0, 1], and applies it unless muted.
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeLevel = clampLevel(level)
	p.applyVolumeLocked()
}

// Volume returns the stored level, muted or not.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeLevel
}

// SetMuted silences the output without touching the stored level.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	if p.volume != nil {
		p.out.Lock()
		p.volume.Silent = muted
		p.out.Unlock()
	}
	p.applyVolumeLocked()
}

// Muted reports whether output is silenced.
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// applyVolumeLocked pushes the level to the volume effect, when a stream is
// loaded, then reports level and mute. p.mu must be held. Silent is left
// alone since a seek may be holding it.
func (p *Player) applyVolumeLocked() {
	if p.volume != nil {
		p.out.Lock()
		p.volume.Volume = levelToVolume(p.volumeLevel)
		p.out.Unlock()
	}
	p.listener.OnVolume(p.volumeLevel, p.muted)
}

// clampLevel bounds level to [0, 1]; NaN counts as 0.
func clampLevel(level float64) float64 {
	if math.IsNaN(level) {
		return 0
	}
	return min(max(level, 0), 1)
}

// levelToVolume maps a linear level to beep's base-2 gain: 1 is 0, 0.5 is
// -1, 0.25 is -2.
func levelToVolume(level float64) float64 {
	switch {
	case level <= 0:
		return silentGain
	case level >= 1:
		return 0
	}
	return math.Log2(level)
}
