package kernel

import (
	"context"
	"sync/atomic"
	"time"
)

// System is the per-image runtime state: the event bus and a millisecond
// uptime counter.
type System struct {
	bus   *Bus
	ticks atomic.Uint64
}

// NewSystem creates a kernel instance.
func NewSystem() *System {
	return &System{bus: NewBus()}
}

// Bus returns the event bus.
func (s *System) Bus() *Bus {
	return s.bus
}

// Start runs the bus workers and a 1ms tick counter until ctx is done.
// Listeners must be registered before Start.
func (s *System) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		t := time.NewTicker(1 * time.Millisecond)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				s.ticks.Add(1)
			}
		}
	}()
	go func() { done <- s.bus.Run(ctx) }()
	return done
}

// Ticks returns the current tick count (1ms per tick).
func (s *System) Ticks() uint64 {
	return s.ticks.Load()
}
