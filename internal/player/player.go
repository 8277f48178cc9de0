package player

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/llehouerou/onair/internal/source"
	"github.com/llehouerou/onair/internal/tags"
)

// DefaultPollInterval is the period of progress reports while playing.
const DefaultPollInterval = 500 * time.Millisecond

// Options configures a Player.
type Options struct {
	PollInterval time.Duration
	Volume       float64
	Muted        bool
	// Covers stores cover thumbnails; nil disables cover art.
	Covers     *tags.CoverCache
	HTTPClient *http.Client
}

type openFunc func(ctx context.Context, rawURL string, opts source.Options) (source.Stream, error)

// Player plays one stream at a time through the speaker.
type Player struct {
	out          output
	open         openFunc
	pollInterval time.Duration
	covers       *tags.CoverCache
	client       *http.Client

	mu         sync.Mutex
	listener   Listener
	state      State
	gen        uint64 // bumped on every Prepare/Release; stale work compares against it
	cancelLoad context.CancelFunc
	url        string
	autoplay   bool // start playing once ready; Play and Pause change it while preparing

	src      source.Stream
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	ended    bool

	volumeLevel float64
	muted       bool

	seekChan chan time.Duration
	stop     chan struct{} // closed on release; stops the poller and seek loop
}

// New creates a player that outputs to the system speaker.
func New(opts Options) *Player {
	return newPlayer(sharedSpeaker, source.Open, opts)
}

func newPlayer(out output, open openFunc, opts Options) *Player {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Player{
		out:          out,
		open:         open,
		pollInterval: opts.PollInterval,
		covers:       opts.Covers,
		client:       opts.HTTPClient,
		listener:     nopListener{},
		state:        Stopped,
		volumeLevel:  clampLevel(opts.Volume),
		muted:        opts.Muted,
	}
}

// SetListener sets the receiver of engine notifications.
func (p *Player) SetListener(l Listener) {
	if l == nil {
		l = nopListener{}
	}
	p.mu.Lock()
	p.listener = l
	p.mu.Unlock()
}

// Prepare releases the current stream, reports req.URL as prepared and
// starts loading it in the background. Once decodable, playback starts
// (Autoplay) or stays paused.
func (p *Player) Prepare(ctx context.Context, req Request) {
	p.mu.Lock()
	p.releaseLocked()
	p.gen++
	gen := p.gen
	loadCtx, cancel := context.WithCancel(ctx)
	p.cancelLoad = cancel
	p.state = Preparing
	p.url = req.URL
	p.autoplay = req.Autoplay
	l := p.listener
	p.mu.Unlock()

	l.OnBuffering(true)
	l.OnPrepared(req.URL)
	go p.load(loadCtx, gen, req, l)
}

// State returns the engine state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// Duration returns the length of the loaded stream.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.durationLocked()
}

func (p *Player) positionLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	p.out.Lock()
	pos := p.streamer.Position()
	p.out.Unlock()
	return p.format.SampleRate.D(pos)
}

func (p *Player) durationLocked() time.Duration {
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Release stops playback and frees the stream.
func (p *Player) Release() {
	p.mu.Lock()
	wasLoaded := p.state != Stopped
	p.releaseLocked()
	p.gen++
	l := p.listener
	p.mu.Unlock()

	if wasLoaded {
		l.OnRelease()
	}
}

// releaseLocked tears down the current stream. Called with p.mu held.
func (p *Player) releaseLocked() {
	if p.cancelLoad != nil {
		p.cancelLoad()
		p.cancelLoad = nil
	}
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
		p.seekChan = nil
	}

	// Close the source first so a decoder blocked on it inside the audio
	// callback returns before the speaker lock is needed.
	if p.src != nil {
		p.src.Close()
		p.src = nil
	}
	if p.streamer != nil {
		p.out.Clear()
		p.streamer.Close()
		p.streamer = nil
	}

	p.ctrl = nil
	p.volume = nil
	p.ended = false
	p.state = Stopped
}
