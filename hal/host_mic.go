//go:build !tinygo

package hal

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Simulated microphone scale, matching the 12-bit SAADC on the board: a
// full-scale sine around the mid-rail bias reads as micFullScaleDB.
const (
	micFullScaleDB  = 105.0
	micFullScaleRMS = 1447.6
	micBias         = 2048
	micMax          = 4095
)

// hostMic synthesises a 440 Hz tone whose loudness sweeps up and down
// between 35 and 100 dB every few seconds.
type hostMic struct {
	mu      sync.Mutex
	enabled bool
	clock   *hostClock
	rng     *rand.Rand
	t       float64 // seconds of generated signal
}

func newHostMic(clock *hostClock) *hostMic {
	return &hostMic{clock: clock, rng: rand.New(rand.NewSource(1))}
}

func (m *hostMic) Enable(on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = on
	return nil
}

func (m *hostMic) Read(buf []int16, period time.Duration) (int, error) {
	if period <= 0 {
		period = 20 * time.Microsecond
	}

	m.mu.Lock()
	enabled := m.enabled
	level := sweepLevel(time.Duration(m.clock.Micros()) * time.Microsecond)
	amp := micFullScaleRMS * math.Sqrt2 * math.Pow(10, (level-micFullScaleDB)/20)
	dt := period.Seconds()
	for i := range buf {
		v := float64(micBias) + m.rng.NormFloat64()*4
		if enabled {
			v += amp * math.Sin(2*math.Pi*440*m.t)
		}
		if v > micMax {
			v = micMax
		}
		if v < 0 {
			v = 0
		}
		buf[i] = int16(v)
		m.t += dt
	}
	m.mu.Unlock()

	m.clock.Sleep(time.Duration(len(buf)) * period)
	return len(buf), nil
}

// sweepLevel is a triangle wave between 35 and 100 dB with a 6 s period.
func sweepLevel(elapsed time.Duration) float64 {
	const period = 6 * time.Second
	x := float64(elapsed%period) / float64(period)
	if x > 0.5 {
		x = 1 - x
	}
	return 35 + 65*2*x
}
