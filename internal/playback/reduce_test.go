package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// populated has every field set to a non-zero value that no test event
// below produces, so untouched fields are easy to spot.
var populated = UiState{
	Idle:            false,
	Buffering:       true,
	Playing:         true,
	URL:             "https://example.com/old.mp3",
	TotalDuration:   "9:99",
	PlayedDuration:  "8:88",
	CurrentProgress: 111,
	MaxProgress:     222,
	Title:           "Old title",
	Artist:          "Old artist",
	Album:           "Old album",
	ArtPath:         "/tmp/old.png",
	Volume:          0.3,
	Muted:           true,
	BufferedBytes:   333,
	TotalBytes:      444,
	Error:           "old error",
}

func TestReduce_UpdatesOnlyNamedFields(t *testing.T) {
	tests := []struct {
		name   string
		event  PlaybackEvent
		mutate func(*UiState)
	}{
		{"Play", Play{}, func(s *UiState) { s.Playing = true }},
		{"Pause", Pause{}, func(s *UiState) { s.Playing = false }},
		{"SetIdle", SetIdle{Idle: true}, func(s *UiState) { s.Idle = true }},
		{"SetBuffering", SetBuffering{Buffering: false}, func(s *UiState) { s.Buffering = false }},
		{"SetURL", SetURL{URL: "https://example.com/new.mp3"}, func(s *UiState) {
			s.URL = "https://example.com/new.mp3"
		}},
		{"ChangeDuration", ChangeDuration{Total: "1:02:05", Played: "0:05"}, func(s *UiState) {
			s.TotalDuration, s.PlayedDuration = "1:02:05", "0:05"
		}},
		{"ChangeProgress", ChangeProgress{Max: 3725000, Current: 5000}, func(s *UiState) {
			s.MaxProgress, s.CurrentProgress = 3725000, 5000
		}},
		{"SetMetadata", SetMetadata{Title: "T", Artist: "A", Album: "B", ArtPath: "/c.png"}, func(s *UiState) {
			s.Title, s.Artist, s.Album, s.ArtPath = "T", "A", "B", "/c.png"
		}},
		{"ChangeVolume", ChangeVolume{Level: 0.8, Muted: false}, func(s *UiState) {
			s.Volume, s.Muted = 0.8, false
		}},
		{"ChangeDownload", ChangeDownload{Buffered: 10, Total: -1}, func(s *UiState) {
			s.BufferedBytes, s.TotalBytes = 10, -1
		}},
		{"Fail", Fail{Message: "Failed to open stream: HTTP 404"}, func(s *UiState) {
			s.Error = "Failed to open stream: HTTP 404"
		}},
		{"ClearError", ClearError{}, func(s *UiState) { s.Error = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := populated
			tt.mutate(&want)
			assert.Equal(t, want, Reduce(populated, tt.event))
		})
	}
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := populated
	_ = Reduce(populated, SetURL{URL: "x"})
	assert.Equal(t, before, populated)
}

func TestReduce_PlayPauseSequence(t *testing.T) {
	s := ReduceAll(Empty,
		SetIdle{Idle: false},
		SetURL{URL: "u"},
		Play{},
	)
	assert.True(t, s.Playing)
	assert.False(t, s.Idle)
	assert.Equal(t, StatePlaying, s.Status())

	s = Reduce(s, Pause{})
	assert.Equal(t, StatePaused, s.Status())

	s = Reduce(s, Play{})
	assert.Equal(t, StatePlaying, s.Status())
}

func TestReduceAll_OrderMatters(t *testing.T) {
	s := ReduceAll(Empty, SetURL{URL: "first"}, SetURL{URL: "second"})
	assert.Equal(t, "second", s.URL)

	s = ReduceAll(Empty, Fail{Message: "boom"}, ClearError{})
	assert.Empty(t, s.Error)

	s = ReduceAll(Empty, ClearError{}, Fail{Message: "boom"})
	assert.Equal(t, "boom", s.Error)
}

func TestReduceAll_NoEvents(t *testing.T) {
	assert.Equal(t, Empty, ReduceAll(Empty))
}
