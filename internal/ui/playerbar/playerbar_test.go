package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/ui"
	"github.com/llehouerou/onair/internal/ui/testutil"
)

func playingSnapshot() playback.UiState {
	s := playback.Empty
	s.Idle = false
	s.Playing = true
	s.URL = "https://example.com/stream.mp3"
	s.Title = "Scan & Book"
	s.Artist = "Scogo"
	s.Album = "Engineers"
	s.PlayedDuration = "1:05"
	s.TotalDuration = "3:00"
	s.CurrentProgress = 65000
	s.MaxProgress = 180000
	s.Volume = 0.8
	s.BufferedBytes = 1_200_000
	s.TotalBytes = 4_000_000
	return s
}

func assertBox(t *testing.T, out string, width, height int) {
	t.Helper()
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, height)
	for i, line := range lines {
		assert.Equal(t, width, testutil.MeasureWidth(line), "line %d: %q", i, testutil.StripANSI(line))
	}
}

func TestNewState(t *testing.T) {
	st := NewState(playingSnapshot(), ModeExpanded, "⠋")

	assert.Equal(t, playback.StatePlaying, st.Status)
	assert.Equal(t, "Scan & Book", st.Title)
	assert.Equal(t, "Scogo", st.Artist)
	assert.Equal(t, "1:05", st.Played)
	assert.Equal(t, "3:00", st.Total)
	assert.Equal(t, 65*time.Second, st.Position)
	assert.Equal(t, 3*time.Minute, st.Duration)
	assert.Equal(t, int64(4_000_000), st.Size)
	assert.Equal(t, "⠋", st.Spinner)
	assert.Equal(t, ModeExpanded, st.Mode)
}

func TestHeight(t *testing.T) {
	assert.Equal(t, 3, Height(ModeCompact))
	assert.Equal(t, ArtRows+ui.BorderHeight, Height(ModeExpanded))
}

func TestRender_CompactIdle(t *testing.T) {
	s := playback.Empty
	s.URL = "https://example.com/stream.mp3"

	out := Render(NewState(s, ModeCompact, ""), 100)
	plain := testutil.StripANSI(out)

	assertBox(t, out, 100, 3)
	assert.Contains(t, plain, "■")
	assert.Contains(t, plain, "https://example.com/stream.mp3")
	assert.Contains(t, plain, "space play")
}

func TestRender_CompactPlaying(t *testing.T) {
	out := Render(NewState(playingSnapshot(), ModeCompact, ""), 120)
	plain := testutil.StripANSI(out)

	assertBox(t, out, 120, 3)
	assert.Contains(t, plain, "▶")
	assert.Contains(t, plain, "Scan & Book · Scogo")
	assert.Contains(t, plain, "1:05 / 3:00")
	assert.Contains(t, plain, "vol 80%")
	assert.Contains(t, plain, "1.2 MB / 4.0 MB")
	assert.Contains(t, plain, "━")
}

func TestRender_CompactTruncatesLongTitle(t *testing.T) {
	s := playingSnapshot()
	s.Title = strings.Repeat("very long title ", 20)

	out := Render(NewState(s, ModeCompact, ""), 80)

	assertBox(t, out, 80, 3)
	assert.Contains(t, testutil.StripANSI(out), "…")
}

func TestRender_CompactPausedAndMuted(t *testing.T) {
	s := playingSnapshot()
	s.Playing = false
	s.Muted = true
	s.BufferedBytes = s.TotalBytes

	plain := testutil.StripANSI(Render(NewState(s, ModeCompact, ""), 100))

	assert.Contains(t, plain, "⏸")
	assert.Contains(t, plain, "muted")
	assert.NotContains(t, plain, "MB", "complete download is not shown")
}

func TestRender_CompactBuffering(t *testing.T) {
	s := playingSnapshot()
	s.Buffering = true

	plain := testutil.StripANSI(Render(NewState(s, ModeCompact, "⠙"), 100))

	assert.Contains(t, plain, "⠙")
}

func TestRender_CompactFallsBackToURL(t *testing.T) {
	s := playingSnapshot()
	s.Title = ""
	s.Artist = ""

	plain := testutil.StripANSI(Render(NewState(s, ModeCompact, ""), 120))

	assert.Contains(t, plain, "https://example.com/stream.mp3")
}

func TestRender_Expanded(t *testing.T) {
	out := Render(NewState(playingSnapshot(), ModeExpanded, ""), 100)
	plain := testutil.StripANSI(out)

	assertBox(t, out, 100, Height(ModeExpanded))
	for _, want := range []string{"Scan & Book", "Scogo", "Engineers", "Playing", "1:05", "3:00", "vol 80%", "downloaded 1.2 MB / 4.0 MB", "♪"} {
		assert.Contains(t, plain, want)
	}
}

func TestRender_ExpandedWithCoverLeavesArtBlank(t *testing.T) {
	st := NewState(playingSnapshot(), ModeExpanded, "")
	st.HasCover = true

	plain := testutil.StripANSI(Render(st, 100))

	assert.NotContains(t, plain, "♪")
	assert.NotContains(t, plain, "┌")
}

func TestRender_ExpandedUnknownArtist(t *testing.T) {
	s := playingSnapshot()
	s.Artist = ""

	plain := testutil.StripANSI(Render(NewState(s, ModeExpanded, ""), 100))

	assert.Contains(t, plain, "Unknown Artist")
}

func TestRender_ExpandedNarrowFallsBackToCompact(t *testing.T) {
	out := Render(NewState(playingSnapshot(), ModeExpanded, ""), ui.MinExpandedWidth-1)

	assert.Len(t, strings.Split(out, "\n"), Height(ModeCompact))
}

func TestDownloadLabel(t *testing.T) {
	tests := []struct {
		name           string
		buffered, size int64
		want           string
	}{
		{"nothing yet", 0, 1000, ""},
		{"unknown size", 2_500_000, -1, "2.5 MB"},
		{"in progress", 1_000_000, 3_000_000, "1.0 MB / 3.0 MB"},
		{"complete", 3_000_000, 3_000_000, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, downloadLabel(tt.buffered, tt.size))
		})
	}
}

func TestVolumeLabel(t *testing.T) {
	assert.Equal(t, "vol 100%", volumeLabel(1, false))
	assert.Equal(t, "vol 55%", volumeLabel(0.55, false))
	assert.Equal(t, "vol 0%", volumeLabel(0, false))
	assert.Equal(t, "muted", volumeLabel(0.7, true))
}

func TestFraction(t *testing.T) {
	assert.Equal(t, 0, fraction(10, 0, 20))
	assert.Equal(t, 0, fraction(-5, 100, 20))
	assert.Equal(t, 10, fraction(50, 100, 20))
	assert.Equal(t, 20, fraction(150, 100, 20))
}

func TestProgressBar_Width(t *testing.T) {
	st := NewState(playingSnapshot(), ModeCompact, "")
	for _, w := range []int{1, 5, 30} {
		assert.Equal(t, w, testutil.MeasureWidth(progressBar(st, w)))
	}
	assert.Empty(t, progressBar(st, 0))
}
