// Package keymap defines key bindings and action dispatch for the application.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit   Action = "quit"
	ActionHelp   Action = "help"
	ActionCancel Action = "cancel" // esc - close help or prompt

	// Playback actions
	ActionActivate        Action = "activate" // prepare when idle, else play/pause
	ActionStop            Action = "stop"
	ActionReload          Action = "reload" // prepare the current URL again
	ActionSeekForward     Action = "seek_forward"
	ActionSeekBack        Action = "seek_back"
	ActionSeekForwardLong Action = "seek_forward_long"
	ActionSeekBackLong    Action = "seek_back_long"
	ActionSeekPercent     Action = "seek_percent" // 0-9 - the digit is read from the key
	ActionVolumeUp        Action = "volume_up"
	ActionVolumeDown      Action = "volume_down"
	ActionToggleMute      Action = "toggle_mute"
	ActionToggleDisplay   Action = "toggle_display" // compact/expanded player bar

	// Stream actions
	ActionOpenURL Action = "open_url" // o - prompt for a URL
	ActionConfirm Action = "confirm"  // enter in the prompt
)
