package playback

import "sync"

// Subscription delivers UiState snapshots to one observer.
//
// States has a capacity of one and always holds the newest snapshot: an
// observer that falls behind skips intermediate states instead of blocking
// the reducer.
type Subscription struct {
	States <-chan UiState
	Done   <-chan struct{}

	stateCh chan UiState
	doneCh  chan struct{}
	sendMu  sync.Mutex
	once    sync.Once
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh: make(chan UiState, 1),
		doneCh:  make(chan struct{}),
	}
	s.States = s.stateCh
	s.Done = s.doneCh
	return s
}

// send replaces any undelivered snapshot with st.
func (s *Subscription) send(st UiState) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	select {
	case s.stateCh <- st:
		return
	default:
	}
	select {
	case <-s.stateCh:
	default:
	}
	select {
	case s.stateCh <- st:
	default:
	}
}

// close signals the observer that no more snapshots will arrive.
func (s *Subscription) close() {
	s.once.Do(func() { close(s.doneCh) })
}
