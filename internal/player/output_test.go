package player

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/llehouerou/onair/internal/errmsg"
)

// fakeOutput stands in for the speaker. Tests advance playback with pull.
type fakeOutput struct {
	mu        sync.Mutex // plays the role of the speaker lock
	streamers []beep.Streamer

	cfgMu   sync.Mutex
	rate    beep.SampleRate
	initErr error
}

func (o *fakeOutput) Init(sr beep.SampleRate) error {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	if o.initErr != nil {
		return o.initErr
	}
	if o.rate == 0 {
		o.rate = sr
	}
	return nil
}

func (o *fakeOutput) SampleRate() beep.SampleRate {
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()
	return o.rate
}

func (o *fakeOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	o.streamers = append(o.streamers, s)
	o.mu.Unlock()
}

func (o *fakeOutput) Clear() {
	o.mu.Lock()
	o.streamers = nil
	o.mu.Unlock()
}

func (o *fakeOutput) Lock()   { o.mu.Lock() }
func (o *fakeOutput) Unlock() { o.mu.Unlock() }

// pull streams n samples through every playing streamer, dropping the ones
// that are drained, like the speaker mixer does.
func (o *fakeOutput) pull(n int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	buf := make([][2]float64, n)
	kept := o.streamers[:0]
	for _, s := range o.streamers {
		got, ok := s.Stream(buf)
		if ok && got == n {
			kept = append(kept, s)
		}
	}
	o.streamers = kept
}

func (o *fakeOutput) playing() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.streamers)
}

// recorder is a Listener that keeps every notification.
type recorder struct {
	mu       sync.Mutex
	events   []string
	progress []time.Duration
	durs     []string
	ops      []errmsg.Op
	errs     []error
	meta     []Metadata
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) OnPrepared(url string) { r.add("prepared:" + filepath.Base(url)) }
func (r *recorder) OnPlay()               { r.add("play") }
func (r *recorder) OnPause()              { r.add("pause") }
func (r *recorder) OnRelease()            { r.add("release") }

func (r *recorder) OnProgress(_, current time.Duration) {
	r.mu.Lock()
	r.progress = append(r.progress, current)
	r.mu.Unlock()
}

func (r *recorder) OnDuration(total, played string) {
	r.mu.Lock()
	r.durs = append(r.durs, played+"/"+total)
	r.mu.Unlock()
}

func (r *recorder) OnBuffering(b bool) { r.add(fmt.Sprintf("buffering:%v", b)) }

func (r *recorder) OnDownload(int64, int64) {}

func (r *recorder) OnMetadata(m Metadata) {
	r.mu.Lock()
	r.meta = append(r.meta, m)
	r.mu.Unlock()
}

func (r *recorder) OnVolume(level float64, muted bool) {
	r.add(fmt.Sprintf("volume:%.2f:%v", level, muted))
}

func (r *recorder) OnError(op errmsg.Op, err error) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.errs = append(r.errs, err)
	r.events = append(r.events, "error")
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) progressCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.progress)
}

func (r *recorder) lastProgress() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.progress) == 0 {
		return -1
	}
	return r.progress[len(r.progress)-1]
}

// writeWAV writes a mono 16-bit PCM file of the given length.
func writeWAV(t *testing.T, dir, name string, rate int, d time.Duration) string {
	t.Helper()
	samples := int(int64(rate) * int64(d) / int64(time.Second))
	dataSize := samples * 2

	buf := make([]byte, 44+dataSize)
	copy(buf[0:], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:], uint32(36+dataSize)) //nolint:gosec // small test files
	copy(buf[8:], "WAVE")
	copy(buf[12:], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:], 16)
	binary.LittleEndian.PutUint16(buf[20:], 1)              // PCM
	binary.LittleEndian.PutUint16(buf[22:], 1)              // mono
	binary.LittleEndian.PutUint32(buf[24:], uint32(rate))   //nolint:gosec // small test files
	binary.LittleEndian.PutUint32(buf[28:], uint32(rate*2)) //nolint:gosec // small test files
	binary.LittleEndian.PutUint16(buf[32:], 2)
	binary.LittleEndian.PutUint16(buf[34:], 16)
	copy(buf[36:], "data")
	binary.LittleEndian.PutUint32(buf[40:], uint32(dataSize)) //nolint:gosec // small test files
	for i := range samples {
		binary.LittleEndian.PutUint16(buf[44+i*2:], uint16(i%1000)) //nolint:gosec // test tone
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf, 0o600); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}
