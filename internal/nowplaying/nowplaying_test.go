package nowplaying

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/onair/internal/notify"
	"github.com/llehouerou/onair/internal/playback"
)

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []notify.Notification
	closed  []uint32
	failing bool
	actions chan notify.ActionEvent
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{actions: make(chan notify.ActionEvent)}
}

func (f *fakeNotifier) Notify(n notify.Notification) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return 0, errors.New("no server")
	}
	f.sent = append(f.sent, n)
	return 7, nil
}

func (f *fakeNotifier) Close(id uint32) error {
	f.mu.Lock()
	f.closed = append(f.closed, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeNotifier) Actions() <-chan notify.ActionEvent { return f.actions }

func (f *fakeNotifier) Sent() []notify.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notify.Notification(nil), f.sent...)
}

// fakeSource wraps a real store and records controller calls.
type fakeSource struct {
	*playback.Store

	mu        sync.Mutex
	activated int
	sent      []playback.ControllerEvent
}

func (f *fakeSource) Activate() {
	f.mu.Lock()
	f.activated++
	f.mu.Unlock()
}

func (f *fakeSource) Send(e playback.ControllerEvent) {
	f.mu.Lock()
	f.sent = append(f.sent, e)
	f.mu.Unlock()
}

// harness runs a store and a Notifier over n inside the current bubble.
func harness(t *testing.T, n *fakeNotifier, opts Options) (*fakeSource, func()) {
	t.Helper()
	src := &fakeSource{Store: playback.NewStore(playback.Empty)}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Go(func() { src.Run(ctx) })
	wg.Go(func() { _ = New(n, src, opts).Run(ctx) })

	return src, func() {
		cancel()
		wg.Wait()
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name      string
		state     playback.UiState
		wantTitle string
		wantBody  string
		wantIcon  string
		wantLabel string
		wantStop  bool
	}{
		{
			name:      "idle",
			state:     playback.Empty,
			wantTitle: "onair",
			wantBody:  "Stopped",
			wantIcon:  fallbackIcon,
			wantLabel: "Play",
		},
		{
			name: "playing with metadata",
			state: playback.UiState{
				Playing: true, URL: "https://x/a.mp3",
				Title: "Scan & Book", Artist: "Scogo", ArtPath: "/cache/c.png",
			},
			wantTitle: "Scan & Book",
			wantBody:  "Scogo · Playing",
			wantIcon:  "/cache/c.png",
			wantLabel: "Pause",
			wantStop:  true,
		},
		{
			name:      "buffering falls back to url",
			state:     playback.UiState{Buffering: true, Playing: true, URL: "https://x/a.mp3"},
			wantTitle: "https://x/a.mp3",
			wantBody:  "Buffering…",
			wantIcon:  fallbackIcon,
			wantLabel: "Pause",
			wantStop:  true,
		},
		{
			name:      "error",
			state:     playback.UiState{Idle: true, Error: "Failed to open stream: boom"},
			wantTitle: "onair",
			wantBody:  "Failed to open stream: boom",
			wantIcon:  fallbackIcon,
			wantLabel: "Play",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Render(tt.state)
			assert.Equal(t, tt.wantTitle, n.Title)
			assert.Equal(t, tt.wantBody, n.Body)
			assert.Equal(t, tt.wantIcon, n.Icon)
			assert.True(t, n.Resident)
			require.NotEmpty(t, n.Actions)
			assert.Equal(t, notify.Action{Key: ActionPlayPause, Label: tt.wantLabel}, n.Actions[0])
			assert.Equal(t, tt.wantStop, len(n.Actions) == 2)
		})
	}

	assert.Equal(t, notify.UrgencyNormal, Render(playback.UiState{Error: "x"}).Urgency)
	assert.Equal(t, notify.UrgencyLow, Render(playback.Empty).Urgency)
}

func TestRun_SendsOnContentChangeOnly(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n := newFakeNotifier()
		src, stop := harness(t, n, Options{Timeout: 3 * time.Second})

		synctest.Wait()
		require.Len(t, n.Sent(), 1, "initial snapshot is shown")
		assert.Equal(t, int32(3000), n.Sent()[0].Timeout)
		assert.Equal(t, uint32(0), n.Sent()[0].ReplacesID)

		src.Push(playback.SetIdle{Idle: false}, playback.SetURL{URL: "u"}, playback.Play{})
		synctest.Wait()
		require.Len(t, n.Sent(), 2)
		assert.Equal(t, uint32(7), n.Sent()[1].ReplacesID)
		assert.Equal(t, "Playing", n.Sent()[1].Body)

		for i := range 10 {
			src.Push(playback.ChangeProgress{Max: 1000, Current: i * 100})
			synctest.Wait()
		}
		assert.Len(t, n.Sent(), 2, "progress ticks do not re-notify")

		src.Push(playback.Pause{})
		synctest.Wait()
		require.Len(t, n.Sent(), 3)
		assert.Equal(t, "Paused", n.Sent()[2].Body)

		stop()
		assert.Equal(t, []uint32{7}, n.closed)
	})
}

func TestRun_Actions(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n := newFakeNotifier()
		src, stop := harness(t, n, Options{})
		defer stop()
		synctest.Wait()

		n.actions <- notify.ActionEvent{ID: 7, Key: ActionPlayPause}
		n.actions <- notify.ActionEvent{ID: 99, Key: ActionPlayPause} // another app's notification
		n.actions <- notify.ActionEvent{ID: 7, Key: ActionStop}
		synctest.Wait()

		src.mu.Lock()
		defer src.mu.Unlock()
		assert.Equal(t, 1, src.activated)
		assert.Equal(t, []playback.ControllerEvent{playback.Stop{}}, src.sent)
	})
}

func TestRun_NotifyFailureRetriesOnNextChange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n := newFakeNotifier()
		n.failing = true
		src, stop := harness(t, n, Options{})
		defer stop()
		synctest.Wait()
		assert.Empty(t, n.Sent())

		n.mu.Lock()
		n.failing = false
		n.mu.Unlock()
		src.Push(playback.SetURL{URL: "u"})
		synctest.Wait()
		assert.Len(t, n.Sent(), 1)
	})
}
