// Package helpbindings provides a scrollable popup listing key bindings.
package helpbindings

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/onair/internal/keymap"
	"github.com/llehouerou/onair/internal/ui"
	"github.com/llehouerou/onair/internal/ui/action"
	"github.com/llehouerou/onair/internal/ui/popup"
	"github.com/llehouerou/onair/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// categoryOrder defines the display order of binding contexts.
var categoryOrder = []string{"global", "playback", "prompt"}

var categoryLabels = map[string]string{
	"global":   "Global",
	"playback": "Playback",
	"prompt":   "Open URL",
}

// Model holds the state for the help bindings popup.
type Model struct {
	ui.Base
	bindings     []keymap.Binding
	scrollOffset int
}

// New creates a help popup listing every context.
func New() Model {
	m := Model{}
	m.SetContexts(categoryOrder)
	return m
}

// SetContexts sets which binding contexts to display.
func (m *Model) SetContexts(contexts []string) {
	m.bindings = nil
	for _, ctx := range categoryOrder {
		if slices.Contains(contexts, ctx) {
			m.bindings = append(m.bindings, keymap.ByContext(ctx)...)
		}
	}
	m.scrollOffset = 0
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "?", "esc", "q":
		return m, action.Cmd(Source, Close{})
	case "j", "down":
		if m.scrollOffset < m.maxScroll() {
			m.scrollOffset++
		}
	case "k", "up":
		if m.scrollOffset > 0 {
			m.scrollOffset--
		}
	}
	return m, nil
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	lines := strings.Split(m.buildContent(), "\n")

	// Width comes from all lines so scrolling does not resize the popup.
	maxWidth := 0
	for _, line := range lines {
		maxWidth = max(maxWidth, lipgloss.Width(line))
	}

	start := min(m.scrollOffset, len(lines))
	end := min(start+m.visibleHeight(), len(lines))
	visible := slices.Clone(lines[start:end])
	for i, line := range visible {
		if w := lipgloss.Width(line); w < maxWidth {
			visible[i] = line + strings.Repeat(" ", maxWidth-w)
		}
	}

	s := styles.T().S()
	var b strings.Builder
	b.WriteString(s.Title.Render("Help"))
	b.WriteString("\n\n")
	b.WriteString(strings.Join(visible, "\n"))
	b.WriteString("\n\n")
	b.WriteString(s.Subtle.Render(m.footer(len(lines))))
	return b.String()
}

func (m Model) buildContent() string {
	s := styles.T().S()
	headerStyle := lipgloss.NewStyle().Foreground(styles.T().Secondary).Bold(true)

	maxKeyWidth := 0
	for _, b := range m.bindings {
		maxKeyWidth = max(maxKeyWidth, lipgloss.Width(KeyLabel(b.Keys)))
	}

	var sb strings.Builder
	current := ""
	for _, b := range m.bindings {
		if b.Context != current {
			if current != "" {
				sb.WriteString("\n")
			}
			label := categoryLabels[b.Context]
			if label == "" {
				label = b.Context
			}
			sb.WriteString(headerStyle.Render(label))
			sb.WriteString("\n")
			sb.WriteString(s.Subtle.Render(strings.Repeat("─", maxKeyWidth+20)))
			sb.WriteString("\n")
			current = b.Context
		}

		keys := KeyLabel(b.Keys)
		sb.WriteString(s.Key.Render(keys + strings.Repeat(" ", maxKeyWidth-lipgloss.Width(keys))))
		sb.WriteString("  ")
		sb.WriteString(s.Base.Render(b.Description))
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// KeyLabel renders a list of keys for display. The literal space key is
// shown as "space", and digit runs collapse into a range.
func KeyLabel(keys []string) string {
	var labels []string
	digits := 0
	for _, k := range keys {
		switch {
		case k == " ":
			k = "space"
		case len(k) == 1 && k[0] >= '0' && k[0] <= '9':
			digits++
			if digits > 1 {
				continue
			}
		}
		if !slices.Contains(labels, k) {
			labels = append(labels, k)
		}
	}
	if digits > 1 {
		for i, l := range labels {
			if len(l) == 1 && l[0] >= '0' && l[0] <= '9' {
				labels[i] = l + "-9"
			}
		}
	}
	return strings.Join(labels, ", ")
}

func (m Model) footer(total int) string {
	if total <= m.visibleHeight() {
		return "?/esc close"
	}
	return "j/k scroll · ?/esc close"
}

func (m Model) visibleHeight() int {
	// Room for the title, footer and popup chrome.
	return max(m.Height()-10, 5)
}

func (m Model) maxScroll() int {
	total := strings.Count(m.buildContent(), "\n") + 1
	return max(total-m.visibleHeight(), 0)
}
