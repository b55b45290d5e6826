package sonar

import (
	"sync/atomic"

	"microsense/kernel"
)

// DistanceMm converts a round-trip echo width into a one-way distance.
func DistanceMm(speedOfSound, widthUs uint32) uint32 {
	return uint32(uint64(speedOfSound) * uint64(widthUs) / 2 / 1000)
}

// Distances holds the latest reading of every channel in millimetres.
//
// Each slot has a single writer, its channel's echo handler. Readers may
// see a value one pulse old; slots are never torn.
type Distances struct {
	slots [MaxSonars]atomic.Uint32
}

// Load returns the latest distance of channel ch.
func (d *Distances) Load(ch int) uint32 {
	return d.slots[ch].Load()
}

// Store records a distance for channel ch.
func (d *Distances) Store(ch int, mm uint32) {
	d.slots[ch].Store(mm)
}

// Snapshot copies the first len(dst) channels into dst.
func (d *Distances) Snapshot(dst []uint32) []uint32 {
	for i := range dst {
		dst[i] = d.slots[i].Load()
	}
	return dst
}

// EchoCapture turns completed echo pulses of one channel into distances.
// Handle runs in interrupt context: arithmetic and one atomic store.
type EchoCapture struct {
	channel int
	speed   uint32
	dist    *Distances
}

// NewEchoCapture returns the capture for channel ch.
func NewEchoCapture(ch int, speedOfSound uint32, dist *Distances) *EchoCapture {
	return &EchoCapture{channel: ch, speed: speedOfSound, dist: dist}
}

// Handle records the width of a completed high phase.
func (e *EchoCapture) Handle(m kernel.Message) {
	if m.Event != kernel.EvtPulseHi {
		return
	}
	e.dist.Store(e.channel, DistanceMm(e.speed, m.Value))
}
