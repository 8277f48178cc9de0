// Package app contains the root bubbletea model of the player screen.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/onair/internal/playback"
)

// PlaybackMessage is implemented by messages that come from the playback
// service. External messages cannot implement it and are handled separately
// in the Update() switch.
type PlaybackMessage interface {
	tea.Msg
	playbackMessage()
}

// StateMsg carries a new UiState snapshot.
type StateMsg struct {
	State playback.UiState
}

func (StateMsg) playbackMessage() {}

// ServiceClosedMsg is sent when the service stops publishing states.
type ServiceClosedMsg struct{}

func (ServiceClosedMsg) playbackMessage() {}

// StderrMsg is sent when stderr output is captured from C libraries (ALSA).
type StderrMsg struct {
	Line string
}

// clearStderrMsg hides the stderr line unless a newer one arrived.
type clearStderrMsg struct {
	seq int
}

// coverSentMsg drops the pending cover transmission once it had time to
// reach the terminal.
type coverSentMsg struct {
	seq int
}
