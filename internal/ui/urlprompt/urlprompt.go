// Package urlprompt provides the "open URL" popup.
package urlprompt

import (
	"errors"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/onair/internal/ui"
	"github.com/llehouerou/onair/internal/ui/action"
	"github.com/llehouerou/onair/internal/ui/popup"
	"github.com/llehouerou/onair/internal/ui/styles"
)

var _ popup.Popup = (*Model)(nil)

// Validation errors shown under the input.
var (
	ErrEmpty       = errors.New("enter a URL or a file path")
	ErrUnsupported = errors.New("only http, https and file URLs are supported")
	ErrNoHost      = errors.New("URL has no host")
)

// Model is the URL input popup.
type Model struct {
	ui.Base
	input textinput.Model
	err   error
}

// New creates a new URL prompt.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "https://example.com/stream.mp3"
	ti.Prompt = "> "
	ti.CharLimit = 2048
	return Model{input: ti}
}

// Start focuses the input with initial as its text and returns the cursor
// blink command.
func (m *Model) Start(initial string, width, height int) tea.Cmd {
	m.err = nil
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.SetSize(width, height)
	return m.input.Focus()
}

// SetSize implements popup.Popup.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.input.Width = max(min(width-12, 72), 10)
}

// Value returns the current text.
func (m Model) Value() string {
	return m.input.Value()
}

// Init implements popup.Popup.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements popup.Popup.
func (m *Model) Update(msg tea.Msg) (popup.Popup, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type { //nolint:exhaustive // other keys go to the input
		case tea.KeyEsc:
			m.input.Blur()
			return m, action.Cmd(Source, Result{Canceled: true})
		case tea.KeyEnter:
			u, err := Validate(m.input.Value())
			if err != nil {
				m.err = err
				return m, nil
			}
			m.input.Blur()
			return m, action.Cmd(Source, Result{URL: u})
		}
		m.err = nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements popup.Popup.
func (m *Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}
	s := styles.T().S()

	var b strings.Builder
	b.WriteString(s.Title.Render("Open stream"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(s.Error.Render(m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(s.Subtle.Render("enter open · esc cancel"))
	return b.String()
}

// Validate trims raw and checks it names something the player can open:
// an http(s) URL with a host, a file:// URL, or a plain path.
func Validate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmpty
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return "", ErrNoHost
		}
	case "file", "":
	default:
		return "", ErrUnsupported
	}
	return raw, nil
}
