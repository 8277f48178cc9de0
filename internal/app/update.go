package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/ui/action"
	"github.com/llehouerou/onair/internal/ui/helpbindings"
	"github.com/llehouerou/onair/internal/ui/urlprompt"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PlaybackMessage:
		return m.handlePlaybackMsg(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Prompt.SetSize(msg.Width, msg.Height)
		m.Help.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case action.Msg:
		return m.handleAction(msg)

	case spinner.TickMsg:
		if !m.State.Buffering {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StderrMsg:
		m.errorSeq++
		m.ErrorMsg = msg.Line
		return m, tea.Batch(WatchStderr(m.stderr), clearStderrCmd(m.errorSeq))

	case clearStderrMsg:
		if msg.seq == m.errorSeq {
			m.ErrorMsg = ""
		}
		return m, nil

	case coverSentMsg:
		if msg.seq == m.coverSeq {
			m.coverTransmit = ""
		}
		return m, nil
	}

	// Cursor blink and other component messages.
	if m.ShowPrompt {
		_, cmd := m.Prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handlePlaybackMsg(msg PlaybackMessage) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateMsg:
		wasBuffering := m.State.Buffering
		m.State = msg.State

		cmds := []tea.Cmd{m.WatchState()}
		if m.State.Buffering && !wasBuffering {
			cmds = append(cmds, m.spinner.Tick)
		}
		cmds = append(cmds, m.syncCover())
		return m, tea.Batch(cmds...)

	case ServiceClosedMsg:
		m.sub = nil
		return m, tea.Quit
	}
	return m, nil
}

// syncCover queues the transmission of a new cover image.
func (m *Model) syncCover() tea.Cmd {
	if m.cover == nil {
		return nil
	}
	seq := m.cover.Prepare(m.State.ArtPath)
	if seq == "" {
		return nil
	}
	m.coverSeq++
	m.coverTransmit += seq
	return coverSentCmd(m.coverSeq)
}

func (m Model) handleAction(msg action.Msg) (tea.Model, tea.Cmd) {
	switch a := msg.Action.(type) {
	case urlprompt.Result:
		m.ShowPrompt = false
		if a.Canceled || a.URL == "" {
			return m, nil
		}
		m.Service.Send(playback.Prepare{URL: a.URL, Autoplay: true})
		return m, nil

	case helpbindings.Close:
		m.ShowHelp = false
		return m, nil
	}
	return m, nil
}
