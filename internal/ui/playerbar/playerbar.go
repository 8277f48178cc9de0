// Package playerbar renders the now-playing bar from a playback snapshot.
package playerbar

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/onair/internal/playback"
	"github.com/llehouerou/onair/internal/ui"
	"github.com/llehouerou/onair/internal/ui/render"
	"github.com/llehouerou/onair/internal/ui/styles"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // Single-line view
	ModeExpanded                    // Cover art and metadata
)

// Status symbols.
const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	idleSymbol  = "■"
)

// State holds everything needed to render the player bar.
type State struct {
	Status   playback.State
	Title    string
	Artist   string
	Album    string
	URL      string
	Played   string // formatted position
	Total    string // formatted duration
	Position time.Duration
	Duration time.Duration
	Volume   float64
	Muted    bool
	Buffered int64
	Size     int64 // -1 while unknown
	Spinner  string
	HasCover bool // the cover is drawn over the art area by the caller
	Mode     DisplayMode
}

// NewState builds a State from a snapshot. spinner is the current frame of
// the buffering indicator.
func NewState(s playback.UiState, mode DisplayMode, spinner string) State {
	return State{
		Status:   s.Status(),
		Title:    s.Title,
		Artist:   s.Artist,
		Album:    s.Album,
		URL:      s.URL,
		Played:   s.PlayedDuration,
		Total:    s.TotalDuration,
		Position: time.Duration(s.CurrentProgress) * time.Millisecond,
		Duration: time.Duration(s.MaxProgress) * time.Millisecond,
		Volume:   s.Volume,
		Muted:    s.Muted,
		Buffered: s.BufferedBytes,
		Size:     s.TotalBytes,
		Spinner:  spinner,
		Mode:     mode,
	}
}

// Height returns the total height of the player bar for the given mode.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return contentRows + ui.BorderHeight
	}
	return 1 + ui.BorderHeight
}

// Render returns the player bar for the given width. The expanded mode
// falls back to compact below ui.MinExpandedWidth.
func Render(s State, width int) string {
	if s.Mode == ModeExpanded && width >= ui.MinExpandedWidth {
		return renderExpanded(s, width)
	}
	return renderCompact(s, width)
}

func panel(s State, width int, content string) string {
	return styles.T().PanelStyle(s.Status == playback.StatePlaying).
		Padding(0, 1).
		Width(max(width-2, 0)).
		Render(content)
}

func renderCompact(s State, width int) string {
	// border (2) + padding (2)
	inner := max(width-4, 0)
	st := styles.T().S()

	if s.Status == playback.StateIdle {
		name := s.Title
		if name == "" {
			name = s.URL
		}
		hint := st.Subtle.Render("space play · o open · ? help")
		left := st.Muted.Render(idleSymbol + "  ")
		avail := inner - lipgloss.Width(left) - lipgloss.Width(hint) - 3
		line := left + st.Base.Render(render.Truncate(name, max(avail, 0)))
		return panel(s, width, render.Row(line, hint, inner))
	}

	status := statusSymbol(s) + "  "
	times := st.Muted.Render(s.Played + " / " + s.Total)
	extras := []string{volumeLabel(s.Volume, s.Muted)}
	if dl := downloadLabel(s.Buffered, s.Size); dl != "" {
		extras = append(extras, dl)
	}

	const sep = "   "
	// Drop the extras, then the times, until a minimal bar fits.
	candidates := []string{times + sep + st.Subtle.Render(strings.Join(extras, " · ")), times, ""}
	var right string
	var fixed int
	for _, right = range candidates {
		fixed = lipgloss.Width(status) + len(sep)
		if right != "" {
			fixed += len(sep) + lipgloss.Width(right)
		}
		if fixed+ui.MinProgressBarWidth <= inner {
			break
		}
	}

	info := infoLine(s)
	infoWidth := min(lipgloss.Width(info), max(inner-fixed-ui.MinProgressBarWidth, 0))
	info = render.Truncate(info, infoWidth)
	barWidth := max(inner-fixed-lipgloss.Width(info), 0)

	var b strings.Builder
	b.WriteString(status)
	b.WriteString(titleStyle(s).Render(info))
	b.WriteString(sep)
	b.WriteString(progressBar(s, barWidth))
	if right != "" {
		b.WriteString(sep)
		b.WriteString(right)
	}
	return panel(s, width, b.String())
}

func statusSymbol(s State) string {
	st := styles.T().S()
	switch s.Status {
	case playback.StatePlaying:
		return st.Playing.Render(playSymbol)
	case playback.StatePaused:
		return st.Muted.Render(pauseSymbol)
	case playback.StateBuffering:
		sp := s.Spinner
		if sp == "" {
			sp = "…"
		}
		return st.Buffering.Render(sp)
	default:
		return st.Muted.Render(idleSymbol)
	}
}

func titleStyle(s State) lipgloss.Style {
	if s.Status == playback.StatePlaying {
		return styles.T().S().Playing
	}
	return styles.T().S().Title
}

// infoLine joins the title and artist, falling back to the URL.
func infoLine(s State) string {
	title := s.Title
	if title == "" {
		title = s.URL
	}
	if s.Artist != "" {
		return title + " · " + s.Artist
	}
	return title
}

func volumeLabel(volume float64, muted bool) string {
	if muted {
		return "muted"
	}
	return "vol " + humanize.FtoaWithDigits(volume*100, 0) + "%"
}

// downloadLabel shows download progress while it runs. It is empty once
// the whole stream is buffered or when nothing was downloaded.
func downloadLabel(buffered, size int64) string {
	switch {
	case buffered <= 0:
		return ""
	case size < 0:
		return humanize.Bytes(uint64(buffered))
	case buffered >= size:
		return ""
	default:
		return humanize.Bytes(uint64(buffered)) + " / " + humanize.Bytes(uint64(size))
	}
}
