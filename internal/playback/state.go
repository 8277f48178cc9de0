// internal/playback/state.go
package playback

// UiState is an immutable snapshot of everything the UI surfaces render.
// Snapshots are only ever produced by Reduce; holders must treat them as
// values and never mutate a published one.
type UiState struct {
	Idle      bool
	Buffering bool
	Playing   bool
	URL       string

	// Formatted as m:ss or h:mm:ss.
	TotalDuration  string
	PlayedDuration string

	// Milliseconds.
	CurrentProgress int
	MaxProgress     int

	Title   string
	Artist  string
	Album   string
	ArtPath string

	Volume float64
	Muted  bool

	BufferedBytes int64
	TotalBytes    int64

	Error string
}

// Empty is the state before any source has been prepared.
var Empty = UiState{
	Idle:       true,
	Volume:     1.0,
	TotalBytes: -1,
}

// Status summarizes the snapshot as a single state.
func (s UiState) Status() State {
	switch {
	case s.Idle:
		return StateIdle
	case s.Buffering:
		return StateBuffering
	case s.Playing:
		return StatePlaying
	default:
		return StatePaused
	}
}

// DisplayTitle returns the best available name for the current source.
func (s UiState) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.URL
}

// State represents the coarse playback state.
type State int

const (
	StateIdle State = iota
	StateBuffering
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateBuffering:
		return "Buffering"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is prepared (buffering, playing or paused).
func (s State) IsActive() bool {
	return s != StateIdle
}
