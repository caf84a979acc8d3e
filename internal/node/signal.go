package node

import "context"

// Signal is a single-slot, saturating event flag.
// Raising an already raised signal has no effect: raises coalesce until
// the next Wait consumes the signal.
type Signal struct {
	ch chan struct{}
}

// NewSignal creates an empty Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// Raise sets the signal. It never blocks.
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the signal is raised and consumes it.
// It returns ctx.Err() if ctx is done first.
func (s *Signal) Wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pending reports whether the signal is raised and not yet consumed.
func (s *Signal) Pending() bool {
	return len(s.ch) == 1
}
