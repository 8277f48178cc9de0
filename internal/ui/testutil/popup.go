package testutil

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/onair/internal/ui/action"
	"github.com/llehouerou/onair/internal/ui/popup"
)

// PopupHarness feeds keys to a popup the way the app does and keeps every
// command the popup hands back.
type PopupHarness struct {
	popup popup.Popup
	cmds  []tea.Cmd
}

// NewPopupHarness wraps p. The command returned by p.Init is recorded like
// any other.
func NewPopupHarness(p popup.Popup) *PopupHarness {
	h := &PopupHarness{popup: p}
	h.record(p.Init())
	return h
}

func (h *PopupHarness) record(cmd tea.Cmd) tea.Cmd {
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// Send delivers msg and returns the popup's command.
func (h *PopupHarness) Send(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.popup, cmd = h.popup.Update(msg)
	return h.record(cmd)
}

// Press sends one key press per name. Names of special keys ("enter",
// "esc", "up", "down", "tab", "backspace") map to their key type; anything
// else is sent as runes. The command of the last press is returned.
func (h *PopupHarness) Press(names ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, name := range names {
		cmd = h.Send(KeyMsg(name))
	}
	return cmd
}

// Type sends text one rune at a time.
func (h *PopupHarness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// KeyMsg builds the tea.KeyMsg for a key name as accepted by Press.
func KeyMsg(name string) tea.KeyMsg {
	special := map[string]tea.KeyType{
		"enter":     tea.KeyEnter,
		"esc":       tea.KeyEscape,
		"up":        tea.KeyUp,
		"down":      tea.KeyDown,
		"tab":       tea.KeyTab,
		"backspace": tea.KeyBackspace,
	}
	if t, ok := special[name]; ok {
		return tea.KeyMsg{Type: t}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// SetSize resizes the popup.
func (h *PopupHarness) SetSize(width, height int) {
	h.popup.SetSize(width, height)
}

// View is the popup's rendered content.
func (h *PopupHarness) View() string {
	return h.popup.View()
}

// ViewContains reports whether substr is on one line of the unstyled view.
func (h *PopupHarness) ViewContains(substr string) bool {
	return HasText(h.View(), substr)
}

// Commands returns what was recorded since creation or the last Reset.
func (h *PopupHarness) Commands() []tea.Cmd {
	return h.cmds
}

// Reset forgets the recorded commands.
func (h *PopupHarness) Reset() {
	h.cmds = nil
}

// LastAction runs the newest recorded command and reports the action it
// delivers. Earlier commands are not run, since cursor blinks block until
// their timer fires.
func (h *PopupHarness) LastAction() (action.Msg, bool) {
	if len(h.cmds) == 0 {
		return action.Msg{}, false
	}
	msg, ok := Run(h.cmds[len(h.cmds)-1]).(action.Msg)
	return msg, ok
}

// Run executes cmd, returning nil for a nil command.
func Run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
