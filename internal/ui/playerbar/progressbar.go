package playerbar

import (
	"strings"

	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/ui/styles"
)

const (
	playedCell     = "━"
	downloadedCell = "─"
	pendingCell    = "┄"
)

// progressBar renders width cells: played (gradient), downloaded but not
// yet played, and not yet downloaded.
func progressBar(s State, width int) string {
	if width <= 0 {
		return ""
	}
	played := fraction(int64(s.Position), int64(s.Duration), width)
	downloaded := width
	if s.Size > 0 && s.Buffered < s.Size {
		downloaded = fraction(s.Buffered, s.Size, width)
	}
	downloaded = max(downloaded, played)

	st := styles.T().S()
	var b strings.Builder
	if s.Status == playback.StatePaused {
		b.WriteString(st.Muted.Render(strings.Repeat(playedCell, played)))
	} else {
		b.WriteString(styles.GradientBar(playedCell, played, width))
	}
	b.WriteString(st.Subtle.Render(strings.Repeat(downloadedCell, downloaded-played)))
	b.WriteString(st.Subtle.Render(strings.Repeat(pendingCell, width-downloaded)))
	return b.String()
}

// fraction returns how many of width cells n/total covers, clamped.
func fraction(n, total int64, width int) int {
	if total <= 0 || n <= 0 {
		return 0
	}
	return min(int(float64(width)*float64(n)/float64(total)), width)
}
