// Package testutil holds helpers for asserting on rendered terminal output.
package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI drops styling and graphics escape sequences.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// MeasureWidth is the number of terminal cells s occupies.
func MeasureWidth(s string) int {
	return ansi.StringWidth(s)
}

// SplitLines splits output on newlines and drops trailing blank lines.
func SplitLines(output string) []string {
	lines := strings.Split(output, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// PlainLines is SplitLines over the unstyled output.
func PlainLines(output string) []string {
	return SplitLines(StripANSI(output))
}

// HasText reports whether substr appears within a single line of the
// unstyled output. Text wrapped across lines does not match.
func HasText(output, substr string) bool {
	for _, line := range PlainLines(output) {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}
