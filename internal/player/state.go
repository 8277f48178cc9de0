// internal/player/state.go
package player

// State represents the engine state machine.
//
//	┌──────────┐  prepare   ┌───────────┐  ready, autoplay   ┌──────────┐
//	│  Stopped │ ─────────▶ │ Preparing │ ─────────────────▶ │  Playing │
//	└──────────┘            └───────────┘                    └──────────┘
//	     ▲                       │ ready                       │     ▲
//	     │ release / error       ▼                       pause │     │ play
//	     │                  ┌──────────┐ ◀─────────────────────┘     │
//	     └──────────────────│  Paused  │ ────────────────────────────┘
//	                        └──────────┘
//
// End of stream moves Playing to Paused with the position rewound to zero.
// Release or a failure moves any state back to Stopped. Toggle cycles
// Playing ↔ Paused. While Preparing, Play, Pause and Toggle only decide
// which of the two the stream enters once ready.
type State int

const (
	Stopped State = iota
	Preparing
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Preparing:
		return "Preparing"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a stream is loaded (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
