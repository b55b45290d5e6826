//go:build !tinygo

package hal

import (
	"runtime"
	"time"
)

type hostClock struct {
	boot time.Time
	now  func() time.Time
}

func newHostClock() *hostClock {
	return newHostClockWith(time.Now)
}

func newHostClockWith(now func() time.Time) *hostClock {
	if now == nil {
		now = time.Now
	}
	return &hostClock{boot: now(), now: now}
}

func (c *hostClock) Millis() uint32 {
	return uint32(c.now().Sub(c.boot) / time.Millisecond)
}

func (c *hostClock) Micros() uint64 {
	return uint64(c.now().Sub(c.boot) / time.Microsecond)
}

// DelayMicros spins; the OS scheduler is far too coarse for µs sleeps.
func (c *hostClock) DelayMicros(us uint32) {
	if us == 0 {
		return
	}
	deadline := c.now().Add(time.Duration(us) * time.Microsecond)
	for c.now().Before(deadline) {
		runtime.Gosched()
	}
}

func (c *hostClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// hostIRQ stands in for interrupt masking: the simulated echo sources take
// the same lock before delivering edges, so nothing is dispatched while the
// trigger sequence runs.
type hostIRQ struct {
	gate *irqGate
}

func (q hostIRQ) Disable() IRQState {
	q.gate.mu.Lock()
	return 1
}

func (q hostIRQ) Restore(state IRQState) {
	if state == 0 {
		return
	}
	q.gate.mu.Unlock()
}
