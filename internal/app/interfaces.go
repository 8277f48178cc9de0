package app

import "github.com/llehouerou/onair/internal/playback"

// Service is the part of playback.Service the screen drives.
type Service interface {
	Send(e playback.ControllerEvent)
	Activate()
	URL() string
	Snapshot() playback.UiState
	Subscribe() *playback.Subscription
	Unsubscribe(sub *playback.Subscription)
}

var _ Service = (*playback.Service)(nil)
