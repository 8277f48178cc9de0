package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradientBar(t *testing.T) {
	tests := []struct {
		name          string
		filled, width int
		want          int
	}{
		{"empty", 0, 10, 0},
		{"partial", 3, 10, 3},
		{"full", 10, 10, 10},
		{"overfilled clamps", 15, 10, 10},
		{"zero width", 3, 0, 0},
		{"single cell", 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ansi.Strip(GradientBar("━", tt.filled, tt.width))
			assert.Equal(t, strings.Repeat("━", tt.want), got)
		})
	}
}

func TestRamp_Endpoints(t *testing.T) {
	from := lipgloss.Color("#a78bfa")
	to := lipgloss.Color("#f1a208")

	colors := ramp(5, from, to)
	require.Len(t, colors, 5)

	for _, tc := range []struct {
		got, want lipgloss.Color
	}{{colors[0], from}, {colors[4], to}} {
		got, err := colorful.Hex(string(tc.got))
		require.NoError(t, err)
		want, _ := colorful.Hex(string(tc.want))
		assert.Less(t, got.DistanceRgb(want), 0.01, "%s vs %s", tc.got, tc.want)
	}

	assert.Equal(t, []lipgloss.Color{from}, ramp(1, from, to))
}

func TestApplyBoldGradient_KeepsText(t *testing.T) {
	assert.Equal(t, "onair", ansi.Strip(ApplyBoldGradient("onair", T().Primary, T().Secondary)))
	assert.Equal(t, "é", ansi.Strip(ApplyBoldGradient("é", T().Primary, T().Secondary)))
	assert.Empty(t, ApplyBoldGradient("", T().Primary, T().Secondary))
}

func TestParseColor_ANSIFallsBackToNeutral(t *testing.T) {
	assert.Equal(t, "#808080", parseColor("240").Hex())
	assert.Equal(t, "#a78bfa", parseColor("#a78bfa").Hex())
}
