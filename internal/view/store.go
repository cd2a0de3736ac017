// Package view holds the view models of the events client: per-screen state
// containers whose effects talk to the backend through api.Client.
package view

import "sync"

// Store is a mutex-guarded state value with synchronous change listeners.
// S should be a value type; slices inside it must be replaced, not mutated
// in place, so that snapshots returned by Get stay stable.
type Store[S any] struct {
	state     S
	listeners map[int]func(S)
	order     []int
	nextID    int
	mu        sync.Mutex
	notifyMu  sync.Mutex
}

// NewStore creates a store holding initial.
func NewStore[S any](initial S) *Store[S] {
	return &Store[S]{
		state:     initial,
		listeners: make(map[int]func(S)),
	}
}

// Get returns a snapshot of the current state.
func (s *Store[S]) Get() S {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Update applies fn to the state and then notifies listeners in
// subscription order with the new snapshot. Notifications from concurrent
// updates are delivered one at a time. Listeners may call Get but must not
// call Update.
func (s *Store[S]) Update(fn func(*S)) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	listeners := make([]func(S), 0, len(s.order))
	for _, id := range s.order {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Subscribe registers fn for future updates and returns the function that removes it.
func (s *Store[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)

	var once sync.Once

	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()

			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}
