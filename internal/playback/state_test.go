// internal/playback/state_test.go
package playback

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "Idle"},
		{StateBuffering, "Buffering"},
		{StatePlaying, "Playing"},
		{StatePaused, "Paused"},
		{State(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestState_IsActive(t *testing.T) {
	tests := []struct {
		state State
		want  bool
	}{
		{StateIdle, false},
		{StateBuffering, true},
		{StatePlaying, true},
		{StatePaused, true},
	}
	for _, tt := range tests {
		if got := tt.state.IsActive(); got != tt.want {
			t.Errorf("%v.IsActive() = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestUiState_Status(t *testing.T) {
	tests := []struct {
		name string
		s    UiState
		want State
	}{
		{"empty is idle", Empty, StateIdle},
		{"idle wins over playing", UiState{Idle: true, Playing: true}, StateIdle},
		{"buffering wins over playing", UiState{Buffering: true, Playing: true}, StateBuffering},
		{"playing", UiState{Playing: true}, StatePlaying},
		{"prepared and not playing", UiState{}, StatePaused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Status(); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUiState_Empty(t *testing.T) {
	if !Empty.Idle || Empty.Playing || Empty.Buffering {
		t.Errorf("Empty flags = %+v, want idle only", Empty)
	}
	if Empty.URL != "" || Empty.TotalDuration != "" || Empty.PlayedDuration != "" {
		t.Errorf("Empty strings = %+v, want empty", Empty)
	}
	if Empty.CurrentProgress != 0 || Empty.MaxProgress != 0 {
		t.Errorf("Empty progress = %d/%d, want 0/0", Empty.CurrentProgress, Empty.MaxProgress)
	}
}

func TestUiState_DisplayTitle(t *testing.T) {
	s := UiState{URL: "https://example.com/a.mp3"}
	if got := s.DisplayTitle(); got != s.URL {
		t.Errorf("DisplayTitle() = %q, want URL", got)
	}
	s.Title = "Episode 1"
	if got := s.DisplayTitle(); got != "Episode 1" {
		t.Errorf("DisplayTitle() = %q, want title", got)
	}
}
