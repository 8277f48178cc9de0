// Package action defines how popup components report results to the app.
package action

import tea "github.com/charmbracelet/bubbletea"

// Action represents an action from a UI component.
// ActionType returns a string identifier used in debug logs.
type Action interface {
	ActionType() string
}

// Msg wraps a UI action with the name of the component that produced it
// ("urlprompt", "helpbindings").
type Msg struct {
	Source string
	Action Action
}

// Cmd returns a command that delivers a as a Msg from source.
func Cmd(source string, a Action) tea.Cmd {
	return func() tea.Msg {
		return Msg{Source: source, Action: a}
	}
}

var _ tea.Msg = Msg{}
