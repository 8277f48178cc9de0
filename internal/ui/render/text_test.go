package render

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean text untouched", "Scan & Book", "Scan & Book"},
		{"tab kept", "a\tb", "a\tb"},
		{"newline dropped", "line\nbreak", "linebreak"},
		{"escape dropped", "\x1b[31mred", "[31mred"},
		{"nbsp becomes space", "a\u00a0b", "a b"},
		{"invalid byte dropped", "ok\xffok", "okok"},
		{"C1 control dropped", "a\u0085b", "ab"},
		{"wide chars kept", "日本語", "日本語"},
		{"DEL dropped", "a\x7fb", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.input); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		want     string
	}{
		{"no truncation needed", "hello", 10, "hello"},
		{"exact fit", "hello", 5, "hello"},
		{"truncation with ellipsis", "hello world", 8, "hello w…"},
		{"zero width", "hello", 0, ""},
		{"empty string", "", 10, ""},
		{"sanitizes first", "a\nb", 5, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestTruncate_WideCharacters(t *testing.T) {
	got := Truncate("日本語の曲名", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("Truncate width = %d, want <= 7 (%q)", w, got)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Truncate(%q) should end with ellipsis", got)
	}
}

func TestRow(t *testing.T) {
	tests := []struct {
		name      string
		left      string
		right     string
		width     int
		wantWidth int
	}{
		{"basic row", "left", "right", 20, 20},
		{"tight fit keeps one space", "left", "right", 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Row(tt.left, tt.right, tt.width)
			if w := runewidth.StringWidth(got); w != tt.wantWidth {
				t.Errorf("Row width = %d, want %d", w, tt.wantWidth)
			}
			if !strings.HasPrefix(got, tt.left) || !strings.HasSuffix(got, tt.right) {
				t.Errorf("Row(%q, %q) = %q", tt.left, tt.right, got)
			}
		})
	}
}

func TestCenter(t *testing.T) {
	if got := Center("ab", 6); got != "  ab  " {
		t.Errorf("Center = %q", got)
	}
	if got := Center("abc", 6); got != " abc  " {
		t.Errorf("Center odd = %q", got)
	}
	if got := Center("toolong", 3); got != "toolong" {
		t.Errorf("Center overflow = %q", got)
	}
}

func TestEmptyLine(t *testing.T) {
	if got := EmptyLine(5); got != "     " {
		t.Errorf("EmptyLine(5) = %q", got)
	}
	if got := EmptyLine(-1); got != "" {
		t.Errorf("EmptyLine(-1) = %q", got)
	}
}
