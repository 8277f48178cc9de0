// Package headerbar renders the single-line header: the application name,
// the playback status and where the stream comes from.
package headerbar

import (
	"net/url"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/source"
	"github.com/llehouerou/onair/internal/ui/render"
	"github.com/llehouerou/onair/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// Name is shown at the left of the header.
const Name = "onair"

// minWidth is the narrowest width the header renders at.
const minWidth = 20

var (
	activeStyle = lipgloss.NewStyle().
			Foreground(styles.T().Primary).
			Bold(true)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(styles.T().FgMuted)

	separatorStyle = lipgloss.NewStyle().
			Foreground(styles.T().FgSubtle)
)

// Render returns the header bar string for the given width. Segments that
// do not fit are dropped from the right.
func Render(status playback.State, streamURL string, width int) string {
	if width < minWidth {
		return ""
	}

	statusStyle := inactiveStyle
	if status == playback.StatePlaying {
		statusStyle = activeStyle
	}

	separator := separatorStyle.Render(" │ ")
	parts := []string{
		styles.ApplyBoldGradient(Name, styles.T().Primary, styles.T().Secondary),
		statusStyle.Render(status.String()),
	}
	if origin := Origin(streamURL); origin != "" {
		room := width - lipgloss.Width(strings.Join(parts, separator)) - lipgloss.Width(separator)
		if room > 0 {
			parts = append(parts, inactiveStyle.Render(render.Truncate(origin, room)))
		}
	}

	content := strings.Join(parts, separator)
	if lipgloss.Width(content) > width {
		content = parts[0]
	}
	return render.Center(content, width)
}

// Origin describes where a stream comes from: the host of a remote URL or
// "local file".
func Origin(streamURL string) string {
	if streamURL == "" {
		return ""
	}
	if source.IsLocal(streamURL) {
		return "local file"
	}
	u, err := url.Parse(streamURL)
	if err != nil {
		return ""
	}
	return u.Host
}
