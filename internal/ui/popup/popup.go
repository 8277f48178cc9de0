// Package popup renders modal overlays above the player view.
package popup

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/llehouerou/onair/internal/ui/styles"
)

// RenderBordered wraps content in a rounded border and centers it in a
// screen of screenW x screenH cells. The box is sized to its content and
// clipped to the screen with a two-cell margin.
func RenderBordered(content string, screenW, screenH int) string {
	width := min(maxLineWidth(content)+6, screenW-4)
	height := min(strings.Count(content, "\n")+1+4, screenH-4)
	if width <= 2 || height <= 2 {
		return ""
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.T().BorderActive).
		Width(width-2).
		MaxHeight(height).
		Padding(1, 2).
		Render(content)
	return Center(box, screenW, screenH)
}

// Center positions a pre-rendered box in the middle of the screen. Lines
// above the box are blank so Compose leaves the base untouched there.
func Center(box string, screenW, screenH int) string {
	lines := strings.Split(box, "\n")
	boxWidth := 0
	for _, line := range lines {
		boxWidth = max(boxWidth, lipgloss.Width(line))
	}

	padTop := max((screenH-len(lines))/2, 0)
	padLeft := max((screenW-boxWidth)/2, 0)

	var b strings.Builder
	for range padTop {
		b.WriteString("\n")
	}
	indent := strings.Repeat(" ", padLeft)
	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(indent)
		b.WriteString(line)
	}
	return b.String()
}

func maxLineWidth(s string) int {
	w := 0
	for line := range strings.SplitSeq(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}

// Compose overlays popupView on top of base. On each line, the visible
// span of the overlay replaces the base cells it covers; blank overlay
// lines leave the base line as is. Both inputs may carry ANSI styling.
func Compose(base, popupView string, width int) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(popupView, "\n")

	for i, overlayLine := range overlayLines {
		if i >= len(baseLines) {
			break
		}

		plain := ansi.Strip(overlayLine)
		if strings.TrimSpace(plain) == "" {
			continue
		}

		startCol := len(plain) - len(strings.TrimLeft(plain, " "))
		endCol := ansi.StringWidth(strings.TrimRight(plain, " "))
		overlay := ansi.Cut(overlayLine, startCol, endCol)

		baseLine := baseLines[i]
		if w := ansi.StringWidth(baseLine); w < width {
			baseLine += strings.Repeat(" ", width-w)
		}

		// Cutting through a wide character can shorten either side.
		prefix := ansi.Cut(baseLine, 0, startCol)
		if w := ansi.StringWidth(prefix); w < startCol {
			prefix += strings.Repeat(" ", startCol-w)
		}
		line := prefix + overlay
		if endCol < width {
			suffix := ansi.Cut(baseLine, endCol, width)
			if w := ansi.StringWidth(suffix); w < width-endCol {
				suffix = strings.Repeat(" ", width-endCol-w) + suffix
			}
			line += suffix
		}
		baseLines[i] = line
	}

	return strings.Join(baseLines, "\n")
}
