// Package render lays out single terminal rows: cleaning tag text, cutting
// it to a cell budget and placing pieces on a line.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Sanitize makes untrusted text (stream titles, ICY metadata) safe to draw.
// Control characters other than tab and malformed UTF-8 are dropped, and a
// no-break space becomes a plain one.
func Sanitize(s string) string {
	if clean(s) {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == utf8.RuneError, r != '\t' && unicode.IsControl(r):
			return -1
		case r == '\u00a0':
			return ' '
		}
		return r
	}, s)
}

func clean(s string) bool {
	for _, r := range s {
		if r == utf8.RuneError || r == '\u00a0' || (r != '\t' && unicode.IsControl(r)) {
			return false
		}
	}
	return true
}

// Truncate sanitizes s and cuts it to maxWidth cells, marking the cut with
// "…". Wide characters take two cells.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// Row puts left and right at the two ends of a width-cell line, measuring
// styled text by what is visible. At least one space separates them.
func Row(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Center surrounds s with spaces up to width cells, the odd one on the
// right. Text already at least width wide is returned unchanged.
func Center(s string, width int) string {
	free := width - lipgloss.Width(s)
	if free <= 0 {
		return s
	}
	return strings.Repeat(" ", free/2) + s + strings.Repeat(" ", free-free/2)
}

// EmptyLine is width spaces.
func EmptyLine(width int) string {
	return strings.Repeat(" ", max(width, 0))
}
