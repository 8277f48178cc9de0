// Package styles holds the color theme and the gradient helpers used by the
// header and player bars.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"
)

// neutral stands in for colors that are not #rrggbb (ANSI indexes).
var neutral = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

// ApplyBoldGradient colors each grapheme of text along a ramp from one
// color to the other, in bold.
func ApplyBoldGradient(text string, from, to lipgloss.Color) string {
	var graphemes []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		graphemes = append(graphemes, g.Str())
	}
	if len(graphemes) == 0 {
		return ""
	}

	base := lipgloss.NewStyle().Bold(true)
	if len(graphemes) == 1 {
		return base.Foreground(from).Render(text)
	}
	colors := ramp(len(graphemes), from, to)
	var b strings.Builder
	for i, gr := range graphemes {
		b.WriteString(base.Foreground(colors[i]).Render(gr))
	}
	return b.String()
}

// GradientBar draws the first filled of width cells. The ramp spans the
// whole width, so a cell's color depends only on its column.
func GradientBar(cell string, filled, width int) string {
	filled = min(filled, width)
	if filled <= 0 {
		return ""
	}
	t := T()
	colors := ramp(width, t.Primary, t.Secondary)

	var b strings.Builder
	for _, c := range colors[:filled] {
		b.WriteString(lipgloss.NewStyle().Foreground(c).Render(cell))
	}
	return b.String()
}

// ramp returns n colors from one end to the other, blended in HCL.
func ramp(n int, from, to lipgloss.Color) []lipgloss.Color {
	if n < 2 {
		return []lipgloss.Color{from}
	}
	a, b := parseColor(from), parseColor(to)
	out := make([]lipgloss.Color, n)
	for i := range out {
		out[i] = lipgloss.Color(a.BlendHcl(b, float64(i)/float64(n-1)).Clamped().Hex())
	}
	return out
}

func parseColor(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return neutral
	}
	return col
}
