package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/onair/internal/app/handler"
	"github.com/llehouerou/onair/internal/keymap"
	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/ui/playerbar"
)

// handleKeyMsg offers the key to the open popup, then to the global and
// playback bindings.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := handler.Chain(msg.String(),
		func(key string) handler.Result { return m.handlePopupKeys(key, msg) },
		m.handleGlobalKeys,
		m.handlePlaybackKeys,
	)
	return m, r.Cmd
}

// handlePopupKeys routes every key but ctrl+c to the prompt or help popup.
func (m *Model) handlePopupKeys(key string, msg tea.KeyMsg) handler.Result {
	if key == "ctrl+c" {
		return handler.NotHandled
	}
	switch {
	case m.ShowPrompt:
		_, cmd := m.Prompt.Update(msg)
		return handler.Handled(cmd)
	case m.ShowHelp:
		_, cmd := m.Help.Update(msg)
		return handler.Handled(cmd)
	}
	return handler.NotHandled
}

func (m *Model) handleGlobalKeys(key string) handler.Result {
	switch m.Keys.Resolve(key) {
	case keymap.ActionQuit:
		return handler.Handled(tea.Quit)
	case keymap.ActionHelp:
		m.ShowHelp = true
		m.Help.SetSize(m.Width, m.Height)
		return handler.Handled(m.Help.Init())
	case keymap.ActionOpenURL:
		m.ShowPrompt = true
		return handler.Handled(m.Prompt.Start(m.Service.URL(), m.Width, m.Height))
	case keymap.ActionToggleDisplay:
		if m.Mode == playerbar.ModeExpanded {
			m.Mode = playerbar.ModeCompact
		} else {
			m.Mode = playerbar.ModeExpanded
		}
		return handler.HandledNoCmd
	}
	return handler.NotHandled
}

// handlePlaybackKeys turns playback keys into controller events.
func (m *Model) handlePlaybackKeys(key string) handler.Result {
	svc := m.Service
	switch m.Keys.Resolve(key) {
	case keymap.ActionActivate:
		svc.Activate()
	case keymap.ActionStop:
		svc.Send(playback.Stop{})
	case keymap.ActionReload:
		if url := svc.URL(); url != "" {
			svc.Send(playback.Prepare{URL: url, Autoplay: true})
		}
	case keymap.ActionToggleMute:
		svc.Send(playback.ToggleMute{})
	case keymap.ActionVolumeUp:
		svc.Send(playback.SetVolume{Level: m.nextVolume(m.opts.VolumeStep)})
	case keymap.ActionVolumeDown:
		svc.Send(playback.SetVolume{Level: m.nextVolume(-m.opts.VolumeStep)})
	case keymap.ActionSeekForward:
		m.seekBy(m.opts.SeekStep)
	case keymap.ActionSeekBack:
		m.seekBy(-m.opts.SeekStep)
	case keymap.ActionSeekForwardLong:
		m.seekBy(m.opts.SeekStepLong)
	case keymap.ActionSeekBackLong:
		m.seekBy(-m.opts.SeekStepLong)
	case keymap.ActionSeekPercent:
		if pos, ok := percentPosition(key, m.State.MaxProgress); ok && !m.State.Idle {
			svc.Send(playback.SeekTo{Position: pos})
		}
	default:
		return handler.NotHandled
	}
	return handler.HandledNoCmd
}

// seekBy sends a relative seek. Seeking needs a prepared source.
func (m *Model) seekBy(delta time.Duration) {
	if m.State.Idle {
		return
	}
	m.Service.Send(playback.SeekBy{Delta: delta})
}

// nextVolume returns the current level moved by delta, within [0, 1].
func (m *Model) nextVolume(delta float64) float64 {
	return min(max(m.State.Volume+delta, 0), 1)
}

// percentPosition maps a digit key to a tenth of the duration.
func percentPosition(key string, maxProgressMS int) (time.Duration, bool) {
	if len(key) != 1 || key[0] < '0' || key[0] > '9' || maxProgressMS <= 0 {
		return 0, false
	}
	tenths := int(key[0] - '0')
	return time.Duration(maxProgressMS*tenths/10) * time.Millisecond, true
}
