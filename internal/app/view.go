package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/onair/internal/ui"
	"github.com/llehouerou/onair/internal/ui/headerbar"
	"github.com/llehouerou/onair/internal/ui/playerbar"
	"github.com/llehouerou/onair/internal/ui/popup"
	"github.com/llehouerou/onair/internal/ui/render"
	"github.com/llehouerou/onair/internal/ui/styles"
)

const footerHint = "space play/pause · ←/→ seek · o open · ? help · q quit"

// View renders the application UI.
func (m Model) View() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}

	mode := m.displayMode()
	bar := playerbar.Render(m.playerBarState(mode), m.Width)
	barHeight := lipgloss.Height(bar)

	header := headerbar.Render(m.State.Status(), m.State.URL, m.Width)
	footer := m.renderFooter()

	// Header and footer take one line each; the rest above the bar is blank.
	filler := max(m.Height-headerbar.Height-barHeight-1, 0)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	for range filler {
		b.WriteString(render.EmptyLine(m.Width))
		b.WriteString("\n")
	}
	b.WriteString(bar)
	b.WriteString("\n")
	b.WriteString(footer)
	view := b.String()

	if overlay := m.renderOverlay(); overlay != "" {
		view = popup.Compose(view, overlay, m.Width)
	}
	view = enforceHeight(view, m.Height)

	// Cover sequences are zero-width: the transmission goes first so the
	// placement at the end can refer to it.
	if m.coverTransmit != "" {
		view = m.coverTransmit + view
	}
	if m.cover != nil {
		if m.coverVisible(mode) {
			row, col := playerbar.CoverOffset()
			barTop := headerbar.Height + filler
			view += m.cover.Placement(barTop+row+1, col+1)
		} else {
			view += m.cover.Hidden()
		}
	}
	return view
}

// displayMode is the mode the player bar actually renders in.
func (m Model) displayMode() playerbar.DisplayMode {
	if m.Mode == playerbar.ModeExpanded && m.Width >= ui.MinExpandedWidth {
		return playerbar.ModeExpanded
	}
	return playerbar.ModeCompact
}

func (m Model) playerBarState(mode playerbar.DisplayMode) playerbar.State {
	s := playerbar.NewState(m.State, mode, m.spinner.View())
	s.HasCover = m.cover != nil && m.cover.HasImage()
	return s
}

// coverVisible reports whether the cover can be placed: the expanded bar
// is on screen in full and no popup covers it.
func (m Model) coverVisible(mode playerbar.DisplayMode) bool {
	if mode != playerbar.ModeExpanded || m.ShowHelp || m.ShowPrompt {
		return false
	}
	need := headerbar.Height + playerbar.Height(mode) + 1
	return m.Height >= need
}

// renderFooter shows the playback error, then captured stderr output, then
// the key hint.
func (m Model) renderFooter() string {
	s := styles.T().S()
	switch {
	case m.State.Error != "":
		return s.Error.Render(render.Truncate(m.State.Error, m.Width))
	case m.ErrorMsg != "":
		return s.Warning.Render(render.Truncate(m.ErrorMsg, m.Width))
	default:
		return s.Subtle.Render(render.Truncate(footerHint, m.Width))
	}
}

func (m Model) renderOverlay() string {
	switch {
	case m.ShowPrompt:
		return popup.RenderBordered(m.Prompt.View(), m.Width, m.Height)
	case m.ShowHelp:
		return popup.RenderBordered(m.Help.View(), m.Width, m.Height)
	}
	return ""
}

// enforceHeight pads or truncates the view to exactly the terminal height.
func enforceHeight(view string, height int) string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
