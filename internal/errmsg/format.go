// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Stream operations
	OpStreamOpen   Op = "open stream"
	OpStreamRead   Op = "read stream"
	OpStreamDecode Op = "decode stream"

	// Playback operations
	OpPlaybackStart  Op = "start playback"
	OpPlaybackSeek   Op = "seek"
	OpPlaybackVolume Op = "change volume"
	OpAudioDevice    Op = "open audio device"

	// Metadata
	OpTagsRead  Op = "read stream tags"
	OpCoverSave Op = "save cover art"

	// Session
	OpSessionLoad Op = "load session"
	OpSessionSave Op = "save session"

	// Integrations
	OpNotify      Op = "send notification"
	OpMPRISStart  Op = "start MPRIS server"
	OpRemoteStart Op = "start remote control"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
