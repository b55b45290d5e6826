//go:build !tinygo

package hal

import (
	"math"
	"sync"
	"time"
)

// SonarPair wires one simulated HC-SR04: a trigger output and an echo input.
type SonarPair struct {
	Trigger int
	Echo    int
}

// SonarSimConfig describes the simulated ranging setup on the host.
type SonarSimConfig struct {
	Pairs []SonarPair
	// SpeedOfSound in m/s, used to turn distances into echo widths.
	SpeedOfSound uint32
	// BurstDelay is the time between the trigger falling edge and the echo
	// rising edge (the module's 8-cycle ultrasonic burst).
	BurstDelay time.Duration
	// Distance returns the simulated one-way distance in mm for a channel.
	Distance func(ch int, elapsed time.Duration) uint32
}

// DefaultSonarSimConfig matches the sonar image wiring: triggers on P2/P8,
// echoes on P1/P16, and a wall swaying between 250 and 750 mm.
func DefaultSonarSimConfig() SonarSimConfig {
	return SonarSimConfig{
		Pairs:        []SonarPair{{Trigger: 2, Echo: 1}, {Trigger: 8, Echo: 16}},
		SpeedOfSound: 350,
		BurstDelay:   200 * time.Microsecond,
		Distance:     swayingWall,
	}
}

func swayingWall(ch int, elapsed time.Duration) uint32 {
	const period = 8 * time.Second
	phase := 2*math.Pi*float64(elapsed%period)/float64(period) + 0.4*float64(ch)
	return uint32(500 + 250*math.Sin(phase))
}

// irqGate serializes simulated interrupt delivery with hostIRQ.
type irqGate struct {
	mu sync.Mutex
}

type sonarSim struct {
	cfg   SonarSimConfig
	gate  *irqGate
	clock *hostClock
}

func newSonarSim(cfg SonarSimConfig, gate *irqGate, clock *hostClock) *sonarSim {
	if cfg.SpeedOfSound == 0 {
		cfg.SpeedOfSound = 350
	}
	if cfg.Distance == nil {
		cfg.Distance = swayingWall
	}
	return &sonarSim{cfg: cfg, gate: gate, clock: clock}
}

// attach hooks the trigger pins; each falling trigger edge produces one
// echo pulse on the paired echo pin.
func (s *sonarSim) attach(g *virtualGPIO) {
	for ch, pair := range s.cfg.Pairs {
		trig := g.pin(pair.Trigger)
		echo := g.pin(pair.Echo)
		if trig == nil || echo == nil {
			continue
		}
		ch := ch
		trig.mu.Lock()
		trig.watch = func(level bool) {
			if !level {
				s.fire(ch, echo)
			}
		}
		trig.mu.Unlock()
	}
}

// echoWidth is the round-trip time in µs for a one-way distance in mm.
func (s *sonarSim) echoWidth(mm uint32) time.Duration {
	us := uint64(mm) * 2 * 1000 / uint64(s.cfg.SpeedOfSound)
	return time.Duration(us) * time.Microsecond
}

func (s *sonarSim) fire(ch int, echo *virtualPin) {
	elapsed := time.Duration(s.clock.Micros()) * time.Microsecond
	width := s.echoWidth(s.cfg.Distance(ch, elapsed))

	time.AfterFunc(s.cfg.BurstDelay, func() {
		s.deliver(echo, true)
		time.AfterFunc(width, func() {
			s.deliver(echo, false)
		})
	})
}

func (s *sonarSim) deliver(echo *virtualPin, level bool) {
	s.gate.mu.Lock()
	defer s.gate.mu.Unlock()
	echo.drive(level, s.clock.Micros())
}
