package player

import "github.com/gopxl/beep/v2"

var _ beep.Streamer = (*gate)(nil)

// starveThreshold is the minimum number of downloaded bytes ahead of the
// decoder for it to be pulled while the download is still running.
const starveThreshold = 64 * 1024

// gate keeps the audio callback from blocking on a slow download: while too
// little data is buffered it plays silence instead of pulling the decoder.
type gate struct {
	streamer    beep.Streamer
	ahead       func() (int64, bool)
	onBuffering func(bool)
	starved     bool
}

// Stream implements beep.Streamer.
func (g *gate) Stream(samples [][2]float64) (n int, ok bool) {
	if n, complete := g.ahead(); !complete && n < starveThreshold {
		if !g.starved {
			g.starved = true
			g.onBuffering(true)
		}
		clear(samples)
		return len(samples), true
	}
	if g.starved {
		g.starved = false
		g.onBuffering(false)
	}
	return g.streamer.Stream(samples)
}

// Err implements beep.Streamer.
func (g *gate) Err() error {
	return g.streamer.Err()
}
