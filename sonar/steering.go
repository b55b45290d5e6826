package sonar

import (
	"math"
	"sync/atomic"
)

// Steering is the beam steering angle in degrees. Button handlers change
// it; the trigger loop reads it once per cycle.
type Steering struct {
	bits  atomic.Uint32
	step  float32
	limit float32
}

// NewSteering returns a centred steering angle moving by step within
// [-limit, limit].
func NewSteering(step, limit float32) *Steering {
	return &Steering{step: step, limit: limit}
}

// Angle returns the current angle.
func (s *Steering) Angle() float32 {
	return math.Float32frombits(s.bits.Load())
}

// Decrease moves the angle one step negative unless it is at the limit and
// returns the new angle.
func (s *Steering) Decrease() float32 {
	return s.update(func(a float32) float32 {
		if a > -s.limit {
			a -= s.step
		}
		return a
	})
}

// Increase moves the angle one step positive unless it is at the limit and
// returns the new angle.
func (s *Steering) Increase() float32 {
	return s.update(func(a float32) float32 {
		if a < s.limit {
			a += s.step
		}
		return a
	})
}

func (s *Steering) update(fn func(float32) float32) float32 {
	for {
		old := s.bits.Load()
		a := fn(math.Float32frombits(old))
		if s.bits.CompareAndSwap(old, math.Float32bits(a)) {
			return a
		}
	}
}
