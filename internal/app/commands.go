package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// stderrTimeout is how long a captured stderr line stays on screen.
const stderrTimeout = 5 * time.Second

// coverSendDelay keeps a cover transmission in the rendered frames long
// enough for the renderer to flush at least one of them.
const coverSendDelay = 200 * time.Millisecond

// WatchState returns a command that waits for the next snapshot of the
// subscription. It must be re-issued after every StateMsg.
func (m Model) WatchState() tea.Cmd {
	sub := m.sub
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case s := <-sub.States:
			return StateMsg{State: s}
		case <-sub.Done:
			// A snapshot published just before shutdown still wins.
			select {
			case s := <-sub.States:
				return StateMsg{State: s}
			default:
				return ServiceClosedMsg{}
			}
		}
	}
}

// WatchStderr returns a command that waits for stderr output from C libraries.
func WatchStderr(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return nil // Channel closed
		}
		return StderrMsg{Line: line}
	}
}

func clearStderrCmd(seq int) tea.Cmd {
	return tea.Tick(stderrTimeout, func(time.Time) tea.Msg {
		return clearStderrMsg{seq: seq}
	})
}

func coverSentCmd(seq int) tea.Cmd {
	return tea.Tick(coverSendDelay, func(time.Time) tea.Msg {
		return coverSentMsg{seq: seq}
	})
}
