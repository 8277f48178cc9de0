// Package keymap defines key bindings for the application.
package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "playback", "prompt"
}

// All contains all key bindings for help generation.
var All = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},
	{ActionOpenURL, []string{"o"}, "Open URL", "global"},

	// Playback
	{ActionActivate, []string{" ", "space", "enter"}, "Play/pause", "playback"},
	{ActionStop, []string{"s"}, "Stop", "playback"},
	{ActionReload, []string{"r"}, "Reload stream", "playback"},
	{ActionSeekBack, []string{"left", "h"}, "Seek back", "playback"},
	{ActionSeekForward, []string{"right", "l"}, "Seek forward", "playback"},
	{ActionSeekBackLong, []string{"shift+left", "H"}, "Seek back (long)", "playback"},
	{ActionSeekForwardLong, []string{"shift+right", "L"}, "Seek forward (long)", "playback"},
	{ActionSeekPercent, []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}, "Seek to 0-90%", "playback"},
	{ActionVolumeUp, []string{"+", "=", "up"}, "Volume up", "playback"},
	{ActionVolumeDown, []string{"-", "down"}, "Volume down", "playback"},
	{ActionToggleMute, []string{"m"}, "Mute", "playback"},
	{ActionToggleDisplay, []string{"v"}, "Toggle player display", "playback"},

	// URL prompt
	{ActionConfirm, []string{"enter"}, "Open", "prompt"},
	{ActionCancel, []string{"esc"}, "Cancel", "prompt"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range All {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
