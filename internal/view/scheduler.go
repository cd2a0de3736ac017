package view

import (
	"context"
	"sync"
)

// Effect is a unit of background work started by a view, typically a fetch.
type Effect func(ctx context.Context)

// Scheduler runs a view's effects and tears them down on Close. After Close
// returns no effect can commit state.
type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

// NewScheduler creates a scheduler whose effects are cancelled when parent is.
func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)

	return &Scheduler{ctx: ctx, cancel: cancel}
}

// Go starts effect on its own goroutine. It reports false, without running
// anything, once the scheduler is closed.
func (s *Scheduler) Go(effect Effect) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		effect(s.ctx)
	}()

	return true
}

// Commit runs fn unless the scheduler is closed or its context is done, and
// reports whether fn ran. Effects route their state writes through Commit so
// a write can never land after Close.
func (s *Scheduler) Commit(fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.ctx.Err() != nil {
		return false
	}

	fn()

	return true
}

// Wait blocks until every started effect has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight effects and waits for them to return.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}
