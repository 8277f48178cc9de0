package playback

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_DeliversInOrder(t *testing.T) {
	c := NewController()
	c.Send(Prepare{URL: "https://example.com/a.mp3", Autoplay: true})
	c.Send(PlayPause{})
	c.Send(SeekTo{Position: time.Minute})
	assert.Equal(t, 3, c.Pending())

	var got []ControllerEvent
	for range 3 {
		e, ok := c.Next(context.Background())
		require.True(t, ok)
		got = append(got, e)
	}

	assert.Equal(t, []ControllerEvent{
		Prepare{URL: "https://example.com/a.mp3", Autoplay: true},
		PlayPause{},
		SeekTo{Position: time.Minute},
	}, got)
	assert.Zero(t, c.Pending())
}

func TestController_NextStopsWithContext(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := NewController()
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan bool, 1)
		go func() {
			_, ok := c.Next(ctx)
			done <- ok
		}()
		synctest.Wait()

		cancel()
		assert.False(t, <-done)
	})
}
