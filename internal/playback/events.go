package playback

import "time"

// ControllerEvent is a user intent travelling from a UI surface to the engine.
//
// Produced by:
//   - the terminal UI (key presses)
//   - the MPRIS adapter (media keys, desktop widgets)
//   - the remote control API
//
// Each event is consumed exactly once by Service.Run.
type ControllerEvent interface {
	controllerEvent()
}

// Prepare loads a new source. When Autoplay is set, playback starts as soon
// as the engine is ready; otherwise the engine stays paused at the start.
type Prepare struct {
	URL      string
	Autoplay bool
}

// PlayPause toggles between playing and paused.
type PlayPause struct{}

// SeekTo moves playback to an absolute position.
type SeekTo struct {
	Position time.Duration
}

// SeekBy moves playback relative to the current position.
type SeekBy struct {
	Delta time.Duration
}

// SetVolume sets the output level (0.0 to 1.0).
type SetVolume struct {
	Level float64
}

// ToggleMute flips the muted flag.
type ToggleMute struct{}

// Stop releases the current source and returns the player to idle.
type Stop struct{}

func (Prepare) controllerEvent()    {}
func (PlayPause) controllerEvent()  {}
func (SeekTo) controllerEvent()     {}
func (SeekBy) controllerEvent()     {}
func (SetVolume) controllerEvent()  {}
func (ToggleMute) controllerEvent() {}
func (Stop) controllerEvent()       {}

// PlaybackEvent is derived from an engine callback and folded into UiState
// by Reduce. Each event names the fields it changes; nothing else moves.
type PlaybackEvent interface {
	playbackEvent()
}

// Play marks the player as playing.
type Play struct{}

// Pause marks the player as not playing.
type Pause struct{}

// SetIdle sets the idle flag. An idle player has no prepared source.
type SetIdle struct {
	Idle bool
}

// SetBuffering sets the buffering flag.
type SetBuffering struct {
	Buffering bool
}

// SetURL records the URL of the prepared source.
type SetURL struct {
	URL string
}

// ChangeDuration carries formatted total and played durations.
type ChangeDuration struct {
	Total  string
	Played string
}

// ChangeProgress carries numeric progress in milliseconds.
type ChangeProgress struct {
	Max     int
	Current int
}

// SetMetadata carries tag information read from the source.
type SetMetadata struct {
	Title   string
	Artist  string
	Album   string
	ArtPath string
}

// ChangeVolume carries the output level and muted flag.
type ChangeVolume struct {
	Level float64
	Muted bool
}

// ChangeDownload carries download progress in bytes. Total is -1 when the
// server did not announce a length.
type ChangeDownload struct {
	Buffered int64
	Total    int64
}

// Fail records a user-facing error message.
type Fail struct {
	Message string
}

// ClearError removes the last error message.
type ClearError struct{}

func (Play) playbackEvent()           {}
func (Pause) playbackEvent()          {}
func (SetIdle) playbackEvent()        {}
func (SetBuffering) playbackEvent()   {}
func (SetURL) playbackEvent()         {}
func (ChangeDuration) playbackEvent() {}
func (ChangeProgress) playbackEvent() {}
func (SetMetadata) playbackEvent()    {}
func (ChangeVolume) playbackEvent()   {}
func (ChangeDownload) playbackEvent() {}
func (Fail) playbackEvent()           {}
func (ClearError) playbackEvent()     {}
