package playback

import (
	"context"
	"slices"
	"sync"
)

// Store owns the UiState. Engine callbacks Push events; Run folds them with
// Reduce and republishes the newest snapshot to every subscriber.
//
// Run is the only writer of the state. Events pushed while a reduction is in
// progress are folded together and published once, so observers see the
// latest snapshot rather than every intermediate one.
type Store struct {
	events *queue[PlaybackEvent]

	mu     sync.RWMutex
	state  UiState
	subs   []*Subscription
	closed bool
}

// NewStore creates a store holding initial.
func NewStore(initial UiState) *Store {
	return &Store{
		events: newQueue[PlaybackEvent](),
		state:  initial,
	}
}

// Push enqueues an event for reduction. It never blocks.
func (s *Store) Push(events ...PlaybackEvent) {
	for _, e := range events {
		s.events.push(e)
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() UiState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers an observer. The current snapshot is delivered
// immediately. A subscription created after Run returned is already done.
func (s *Store) Subscribe() *Subscription {
	sub := newSubscription()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		sub.close()
		return sub
	}
	s.subs = append(s.subs, sub)
	sub.send(s.state)
	return sub
}

// Unsubscribe removes an observer and closes its Done channel.
func (s *Store) Unsubscribe(sub *Subscription) {
	s.mu.Lock()
	s.subs = slices.DeleteFunc(s.subs, func(x *Subscription) bool { return x == sub })
	s.mu.Unlock()
	sub.close()
}

// Run reduces pushed events until ctx is done, then closes all subscriptions.
func (s *Store) Run(ctx context.Context) {
	defer s.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.events.ready:
			s.apply(s.events.drain()...)
		}
	}
}

// apply folds events into the state and publishes the result.
func (s *Store) apply(events ...PlaybackEvent) {
	if len(events) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := ReduceAll(s.state, events...)
	if next == s.state {
		return
	}
	s.state = next
	for _, sub := range s.subs {
		sub.send(next)
	}
}

func (s *Store) shutdown() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.closed = true
	s.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}
