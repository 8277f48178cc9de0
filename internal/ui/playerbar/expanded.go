package playerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/ui/kittyimg"
	"github.com/llehouerou/onair/internal/ui/render"
	"github.com/llehouerou/onair/internal/ui/styles"
)

// Cover art area in cells. Cells are roughly twice as tall as wide, so
// 16x8 is close to square.
const (
	ArtCols     = 16
	ArtRows     = 8
	contentRows = ArtRows
	artGap      = 2
)

// CoverOffset returns where the cover area starts relative to the top-left
// corner of an expanded bar, as 0-based (row, col).
func CoverOffset() (row, col int) {
	// border, then one cell of padding on the left
	return 1, 2
}

func renderExpanded(s State, width int) string {
	st := styles.T().S()
	// border (2) + padding (2)
	inner := max(width-4, 0)
	metaWidth := max(inner-ArtCols-artGap, 0)

	title := s.Title
	if title == "" {
		title = s.URL
	}
	artist := s.Artist
	if artist == "" {
		artist = "Unknown Artist"
	}

	meta := []string{
		titleStyle(s).Render(render.Truncate(title, metaWidth)),
		st.Base.Render(render.Truncate(artist, metaWidth)),
		st.Muted.Render(render.Truncate(s.Album, metaWidth)),
		"",
		statusLine(s, metaWidth),
		"",
		progressLine(s, metaWidth),
		st.Subtle.Render(render.Truncate(detailLine(s), metaWidth)),
	}

	var art []string
	if s.HasCover {
		art = strings.Split(kittyimg.Blank(ArtCols, ArtRows), "\n")
	} else {
		art = strings.Split(kittyimg.Placeholder(ArtCols, ArtRows), "\n")
	}

	lines := make([]string, contentRows)
	gap := strings.Repeat(" ", artGap)
	for i := range lines {
		a := strings.Repeat(" ", ArtCols)
		if i < len(art) {
			a = st.Subtle.Render(art[i])
		}
		lines[i] = a + gap + meta[i]
	}
	return panel(s, width, strings.Join(lines, "\n"))
}

func statusLine(s State, width int) string {
	name := s.Status.String()
	if s.Status == playback.StateBuffering {
		name += "…"
	}
	symbol := statusSymbol(s)
	if lipgloss.Width(symbol)+1+len(name) > width {
		return symbol
	}
	return symbol + " " + styles.T().S().Muted.Render(name)
}

// progressLine is "1:23  ━━━━───┄┄┄  3:58".
func progressLine(s State, width int) string {
	st := styles.T().S()
	left := st.Muted.Render(s.Played) + "  "
	right := "  " + st.Muted.Render(s.Total)
	barWidth := width - lipgloss.Width(left) - lipgloss.Width(right)
	if barWidth < 3 {
		return render.Truncate(s.Played+" / "+s.Total, width)
	}
	return left + progressBar(s, barWidth) + right
}

func detailLine(s State) string {
	parts := []string{volumeLabel(s.Volume, s.Muted)}
	if dl := downloadLabel(s.Buffered, s.Size); dl != "" {
		parts = append(parts, "downloaded "+dl)
	}
	return strings.Join(parts, " · ")
}
