package player

import (
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// output is the audio device. The speaker can only be initialised once per
// process, so its sample rate is fixed by the first stream; later streams
// are resampled to it.
type output interface {
	Init(sr beep.SampleRate) error
	SampleRate() beep.SampleRate
	Play(s beep.Streamer)
	Clear()
	Lock()
	Unlock()
}

type speakerOutput struct {
	mu          sync.Mutex
	initialized bool
	rate        beep.SampleRate
}

// sharedSpeaker is the process-wide speaker.
var sharedSpeaker = &speakerOutput{}

func (o *speakerOutput) Init(sr beep.SampleRate) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.initialized {
		return nil
	}
	if err := speaker.Init(sr, sr.N(time.Second/10)); err != nil {
		return err
	}
	o.rate = sr
	o.initialized = true
	return nil
}

func (o *speakerOutput) SampleRate() beep.SampleRate {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.rate
}

func (o *speakerOutput) Play(s beep.Streamer) { speaker.Play(s) }

func (o *speakerOutput) Clear() { speaker.Clear() }

func (o *speakerOutput) Lock() { speaker.Lock() }

func (o *speakerOutput) Unlock() { speaker.Unlock() }
