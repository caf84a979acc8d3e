package node

import (
	"context"
	"sync"
	"sync/atomic"
)

// Gate serializes access to the outbound publish channel.
// It starts closed: Acquire blocks until Open has been called once.
// There is no fairness between waiters and the gate is not reentrant.
type Gate struct {
	token  chan struct{}
	once   sync.Once
	opened atomic.Bool
	held   atomic.Bool
}

// NewGate creates a closed Gate.
func NewGate() *Gate {
	return &Gate{token: make(chan struct{}, 1)}
}

// Open makes the gate available for the first time.
// Later calls do nothing, so there is never more than one token.
func (g *Gate) Open() {
	g.once.Do(func() {
		g.opened.Store(true)
		g.token <- struct{}{}
	})
}

// Acquire blocks until the caller holds the gate.
// It returns ctx.Err() if ctx is done first.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case <-g.token:
		g.held.Store(true)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns the gate. It never blocks and is a no-op when the gate
// is not held.
func (g *Gate) Release() {
	if !g.held.CompareAndSwap(true, false) {
		return
	}
	g.token <- struct{}{}
}

// Held reports whether some task currently holds the gate.
func (g *Gate) Held() bool {
	return g.held.Load()
}

// Opened reports whether Open has been called.
func (g *Gate) Opened() bool {
	return g.opened.Load()
}
