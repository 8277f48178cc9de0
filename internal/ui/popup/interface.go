package popup

import tea "github.com/charmbracelet/bubbletea"

// Popup is a modal that owns the keyboard while it is shown. The app draws
// the border and centers it; View returns only the inner content.
type Popup interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Popup, tea.Cmd)
	View() string
	SetSize(width, height int)
}
