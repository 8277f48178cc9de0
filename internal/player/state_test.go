package player

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestState_Predicates(t *testing.T) {
	tests := []struct {
		state                       State
		name                        string
		active, canPause, canResume bool
	}{
		{Stopped, "Stopped", false, false, false},
		{Preparing, "Preparing", false, false, false},
		{Playing, "Playing", true, true, false},
		{Paused, "Paused", true, false, true},
		{State(99), "Unknown", false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.state.String())
			assert.Equal(t, tt.active, tt.state.IsActive(), "IsActive")
			assert.Equal(t, tt.canPause, tt.state.CanPause(), "CanPause")
			assert.Equal(t, tt.canResume, tt.state.CanResume(), "CanResume")
		})
	}
}

func TestMock_Transitions(t *testing.T) {
	prepare := func(autoplay bool) func(*Mock) {
		return func(m *Mock) {
			m.Prepare(context.Background(), Request{URL: "/music/a.mp3", Autoplay: autoplay})
		}
	}
	var (
		play    = (*Mock).Play
		pause   = (*Mock).Pause
		toggle  = (*Mock).Toggle
		release = (*Mock).Release
	)

	tests := []struct {
		name  string
		steps []func(*Mock)
		want  State
	}{
		{"fresh mock", nil, Stopped},
		{"prepare with autoplay", []func(*Mock){prepare(true)}, Playing},
		{"prepare paused", []func(*Mock){prepare(false)}, Paused},
		{"pause then play", []func(*Mock){prepare(true), pause, play}, Playing},
		{"toggle pauses", []func(*Mock){prepare(true), toggle}, Paused},
		{"toggle resumes", []func(*Mock){prepare(false), toggle}, Playing},
		{"toggle while stopped", []func(*Mock){toggle}, Stopped},
		{"play while playing", []func(*Mock){prepare(true), play}, Playing},
		{"pause while stopped", []func(*Mock){pause}, Stopped},
		{"release playing", []func(*Mock){prepare(true), release}, Stopped},
		{"release paused", []func(*Mock){prepare(false), release}, Stopped},
		{"release stopped", []func(*Mock){release}, Stopped},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMock()
			for _, step := range tt.steps {
				step(m)
			}
			assert.Equal(t, tt.want, m.State())
		})
	}
}

func TestMock_FailedPrepareStaysStopped(t *testing.T) {
	m := NewMock()
	m.SetPrepareError(errors.New("connection refused"))

	m.Prepare(context.Background(), Request{URL: "http://example.com/a.mp3", Autoplay: true})

	assert.Equal(t, Stopped, m.State())
}

func TestMock_SeekWhileStoppedIgnored(t *testing.T) {
	m := NewMock()

	m.SeekTo(time.Minute)

	assert.Empty(t, m.SeekCalls())
}
