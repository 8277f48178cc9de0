package player

import (
	"context"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/rs/zerolog/log"

	"github.com/llehouerou/onair/internal/errmsg"
	"github.com/llehouerou/onair/internal/source"
	"github.com/llehouerou/onair/internal/tags"
)

// load opens and decodes req.URL, then installs it as the current stream
// unless a newer Prepare or Release happened meanwhile.
func (p *Player) load(ctx context.Context, gen uint64, req Request, l Listener) {
	src, err := p.open(ctx, req.URL, source.Options{
		OnBuffering: l.OnBuffering,
		OnProgress:  l.OnDownload,
		Client:      p.client,
	})
	if err != nil {
		p.loadFailed(ctx, gen, errmsg.OpStreamOpen, err)
		return
	}

	streamer, format, err := decode(src)
	if err != nil {
		src.Close()
		p.loadFailed(ctx, gen, errmsg.OpStreamDecode, err)
		return
	}

	if err := p.out.Init(format.SampleRate); err != nil {
		streamer.Close()
		src.Close()
		p.loadFailed(ctx, gen, errmsg.OpAudioDevice, err)
		return
	}

	if req.StartAt > 0 {
		// Len is 0 while a download is still being indexed.
		if target := format.SampleRate.N(req.StartAt); streamer.Len() == 0 || target < streamer.Len() {
			if err := streamer.Seek(target); err != nil {
				log.Warn().Err(err).Dur("start_at", req.StartAt).Msg(errmsg.Format(errmsg.OpPlaybackStart, err))
			}
		}
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		streamer.Close()
		src.Close()
		return
	}

	p.src = src
	p.streamer = streamer
	p.format = format
	p.ended = false

	var playStreamer beep.Streamer = &gate{
		streamer:    streamer,
		ahead:       src.Ahead,
		onBuffering: l.OnBuffering,
	}
	// Resample if the stream's sample rate differs from the speaker's
	if rate := p.out.SampleRate(); format.SampleRate != rate {
		playStreamer = beep.Resample(4, format.SampleRate, rate, playStreamer)
	}
	autoplay := p.autoplay
	p.ctrl = &beep.Ctrl{Streamer: playStreamer, Paused: !autoplay}
	p.volume = &effects.Volume{
		Streamer: p.ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	if autoplay {
		p.state = Playing
	} else {
		p.state = Paused
	}

	p.stop = make(chan struct{})
	p.seekChan = make(chan time.Duration, 1)
	go p.seekLoop(gen, p.seekChan, p.stop)
	go p.poll(gen, p.pollInterval, p.stop)
	if ps, ok := streamer.(progressive); ok && !ps.seekable() {
		go p.indexWhenDownloaded(gen, ps, src, p.stop)
	}

	p.out.Play(p.sequenceLocked(gen))

	log.Info().
		Str("url", req.URL).
		Int("sample_rate", int(format.SampleRate)).
		Dur("duration", p.durationLocked()).
		Msg("stream ready")

	l.OnBuffering(false)
	p.reportLocked()
	if autoplay {
		l.OnPlay()
	} else {
		l.OnPause()
	}
	p.mu.Unlock()

	go p.readMetadata(gen, req.URL, src, l)
}

// indexWhenDownloaded makes a progressive stream seekable and gives it a
// duration once its download completes.
func (p *Player) indexWhenDownloaded(gen uint64, s progressive, src source.Stream, stop <-chan struct{}) {
	select {
	case <-stop:
		return
	case <-src.Downloaded():
	}

	install, err := s.buildIndex()
	if err != nil {
		log.Warn().Err(err).Str("url", src.Name()).Msg("stream stays unseekable")
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen || p.streamer == nil {
		return
	}
	p.out.Lock()
	err = install()
	p.out.Unlock()
	if err != nil {
		log.Warn().Err(err).Str("url", src.Name()).Msg("stream stays unseekable")
		return
	}
	log.Debug().Dur("duration", p.durationLocked()).Msg("stream indexed")
	p.reportLocked()
}

// sequenceLocked wraps the current chain with the end-of-stream callback.
func (p *Player) sequenceLocked(gen uint64) beep.Streamer {
	return beep.Seq(p.volume, beep.Callback(func() {
		// Runs on the audio goroutine with the speaker locked.
		go p.finished(gen)
	}))
}

// finished handles the end of the stream: a decoder error is a failure,
// otherwise playback pauses and rewinds to the start.
func (p *Player) finished(gen uint64) {
	p.mu.Lock()
	if gen != p.gen || p.streamer == nil {
		p.mu.Unlock()
		return
	}

	if err := p.streamer.Err(); err != nil {
		p.mu.Unlock()
		p.fail(gen, errmsg.OpStreamRead, err)
		return
	}

	p.out.Lock()
	p.ctrl.Paused = true
	err := p.streamer.Seek(0)
	p.out.Unlock()
	if err != nil {
		log.Warn().Err(err).Msg("rewind after end of stream failed")
	}

	p.ended = true
	p.state = Paused
	p.listener.OnPause()
	p.reportLocked()
	p.mu.Unlock()
}

// fail tears down generation gen and reports err.
func (p *Player) fail(gen uint64, op errmsg.Op, err error) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.releaseLocked()
	p.gen++
	l := p.listener
	p.mu.Unlock()

	log.Error().Err(err).Str("op", string(op)).Msg("engine failure")
	l.OnBuffering(false)
	l.OnError(op, err)
}

// loadFailed reports a load error, unless the load was cancelled: then the
// stream is torn down without an error.
func (p *Player) loadFailed(ctx context.Context, gen uint64, op errmsg.Op, err error) {
	if ctx.Err() == nil {
		p.fail(gen, op, err)
		return
	}

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.releaseLocked()
	p.gen++
	l := p.listener
	p.mu.Unlock()

	log.Debug().Err(err).Str("op", string(op)).Msg("load cancelled")
	l.OnBuffering(false)
}

// readMetadata reads tags and cover art for the prepared stream.
func (p *Player) readMetadata(gen uint64, rawURL string, src source.Stream, l Listener) {
	t := p.readTags(rawURL, src)
	if t == nil {
		return
	}

	md := Metadata{Title: t.Title, Artist: t.Artist, Album: t.Album}
	if len(t.Cover) > 0 && p.covers != nil {
		path, err := p.covers.Save(t.Cover)
		if err != nil {
			log.Warn().Err(err).Str("op", string(errmsg.OpCoverSave)).Msg("cover art skipped")
		} else {
			md.ArtPath = path
		}
	}

	p.mu.Lock()
	current := gen == p.gen
	p.mu.Unlock()
	if current {
		l.OnMetadata(md)
	}
}

func (p *Player) readTags(rawURL string, src source.Stream) *tags.Tag {
	if source.IsLocal(rawURL) {
		t, err := tags.Read(source.LocalPath(rawURL))
		if err != nil {
			log.Debug().Err(err).Str("url", rawURL).Msg(string(errmsg.OpTagsRead))
			return nil
		}
		return t
	}

	header, err := src.Prefix(10)
	if err != nil {
		return nil
	}
	size := tags.ID3Size(header)
	if size == 0 {
		return nil
	}
	data, err := src.Prefix(size)
	if err != nil {
		return nil
	}
	t, err := tags.FromID3(data)
	if err != nil {
		log.Debug().Err(err).Str("url", rawURL).Msg("no tags")
		return nil
	}
	return t
}
