// Package sonar drives a row of HC-SR04 style ultrasonic rangers whose
// trigger pulses are skewed in time to steer the combined beam.
package sonar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MaxSonars bounds the number of channels.
const MaxSonars = 4

// Config describes the sonar array and its timing.
type Config struct {
	// Triggers and Echoes are edge connector pins, one pair per channel.
	Triggers []int
	Echoes   []int

	// SpacingM is the distance between neighbouring sonars in metres.
	SpacingM float64
	// SpeedOfSound in m/s.
	SpeedOfSound uint32
	// MinPulseWidthUs is the shortest trigger pulse and the settle time
	// before each pulse.
	MinPulseWidthUs uint32

	// MinCycle and UpdatesPerSecond set the measurement cycle:
	// max(MinCycle, 1s/UpdatesPerSecond).
	MinCycle         time.Duration
	UpdatesPerSecond int

	// AngleStep is the steering change per button click; MaxAngle bounds
	// the steering angle in both directions. Degrees.
	AngleStep float32
	MaxAngle  float32

	// Serial selects the text telemetry line; otherwise distances scroll on
	// the matrix.
	Serial bool
}

// DefaultConfig returns the two-sonar wiring: triggers on P2/P8, echoes on
// P1/P16, sensors 45 mm apart.
func DefaultConfig() Config {
	return Config{
		Triggers:         []int{2, 8},
		Echoes:           []int{1, 16},
		SpacingM:         0.045,
		SpeedOfSound:     350,
		MinPulseWidthUs:  25,
		MinCycle:         60 * time.Millisecond,
		UpdatesPerSecond: 10,
		AngleStep:        5,
		MaxAngle:         30,
		Serial:           true,
	}
}

var errNoChannels = errors.New("sonar: no channels")

// Validate reports the first inconsistency in c.
func (c Config) Validate() error {
	n := len(c.Triggers)
	switch {
	case n == 0:
		return errNoChannels
	case n > MaxSonars:
		return fmt.Errorf("sonar: %d channels, at most %d supported", n, MaxSonars)
	case len(c.Echoes) != n:
		return fmt.Errorf("sonar: %d trigger pins but %d echo pins", n, len(c.Echoes))
	case c.SpacingM <= 0:
		return fmt.Errorf("sonar: spacing %v m must be positive", c.SpacingM)
	case c.SpeedOfSound == 0:
		return fmt.Errorf("sonar: speed of sound must be positive")
	case c.MinPulseWidthUs == 0:
		return fmt.Errorf("sonar: minimum pulse width must be positive")
	case c.UpdatesPerSecond <= 0:
		return fmt.Errorf("sonar: updates per second %d must be positive", c.UpdatesPerSecond)
	case c.AngleStep <= 0:
		return fmt.Errorf("sonar: angle step %v must be positive", c.AngleStep)
	case c.MaxAngle <= 0 || c.MaxAngle >= 90:
		return fmt.Errorf("sonar: max angle %v outside (0, 90)", c.MaxAngle)
	}

	seen := make(map[int]bool, 2*n)
	for _, p := range append(append([]int(nil), c.Triggers...), c.Echoes...) {
		if seen[p] {
			return fmt.Errorf("sonar: pin P%d used twice", p)
		}
		seen[p] = true
	}
	return nil
}

// Channels returns the number of sonars.
func (c Config) Channels() int { return len(c.Triggers) }

// MaxDelayUs is the acoustic travel time between neighbouring sonars.
func (c Config) MaxDelayUs() float64 {
	return c.SpacingM / float64(c.SpeedOfSound) * 1e6
}

// Cycle is the time between trigger sequences.
func (c Config) Cycle() time.Duration {
	per := time.Second / time.Duration(c.UpdatesPerSecond)
	if per < c.MinCycle {
		return c.MinCycle
	}
	return per
}

// TimeDelayUs is the skew between neighbouring trigger pulses for a
// steering angle in degrees.
func (c Config) TimeDelayUs(angle float32) uint32 {
	a := math.Abs(float64(angle)) * math.Pi / 180
	return uint32(math.Round(c.MaxDelayUs() * math.Sin(a)))
}

// PulseWidthUs is the trigger pulse width: long enough that every channel
// is high at the same time for at least 1 µs.
func (c Config) PulseWidthUs(angle float32) uint32 {
	w := uint32(c.Channels()-1)*c.TimeDelayUs(angle) + 1
	if w < c.MinPulseWidthUs {
		return c.MinPulseWidthUs
	}
	return w
}
