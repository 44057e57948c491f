// internal/link/signal.go
package link

import (
	"context"
	"sync"
)

// Signal is a single-bit event flag with blocking wait.
// A closed channel means set; Clear swaps in a fresh channel.
// Safe for concurrent use.
type Signal struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{}
}

func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Set raises the flag and releases every waiter. Idempotent.
func (s *Signal) Set() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set {
		return
	}
	s.set = true
	close(s.ch)
}

// Clear lowers the flag. Idempotent.
func (s *Signal) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return
	}
	s.set = false
	s.ch = make(chan struct{})
}

// IsSet reports the current value.
func (s *Signal) IsSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set
}

// Wait blocks until the flag is set or ctx ends.
// A flag that was set and cleared again before the waiter woke up does
// not release it.
func (s *Signal) Wait(ctx context.Context) error {
	for {
		s.mu.Lock()
		if s.set {
			s.mu.Unlock()
			return nil
		}
		ch := s.ch
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
