package sonar

import (
	"fmt"

	"microsense/hal"
)

// Edge is one trigger line transition, AtUs after the sequence starts.
type Edge struct {
	AtUs    uint32
	Channel int
	High    bool
}

// Plan is a complete trigger sequence for one steering angle.
type Plan struct {
	DelayUs uint32
	WidthUs uint32
	Edges   []Edge
}

// Order returns the channels in the order they rise: ascending for a
// positive angle, descending for a negative one. For angle 0 every channel
// rises at once and the order is ascending.
func (c Config) Order(angle float32) []int {
	n := c.Channels()
	order := make([]int, n)
	for i := range order {
		order[i] = rank(angle, n, i)
	}
	return order
}

// Plan lays out the trigger sequence for angle: all lines low, settle,
// rise in order spaced by the delay, then fall in the same order so each
// line is high for the pulse width.
func (c Config) Plan(angle float32) Plan {
	p := Plan{DelayUs: c.TimeDelayUs(angle), WidthUs: c.PulseWidthUs(angle)}
	p.Edges = c.appendEdges(make([]Edge, 0, 3*c.Channels()), angle, p.DelayUs, p.WidthUs)
	return p
}

func (c Config) appendEdges(dst []Edge, angle float32, delay, width uint32) []Edge {
	n := c.Channels()
	for ch := 0; ch < n; ch++ {
		dst = append(dst, Edge{AtUs: 0, Channel: ch, High: false})
	}
	settle := c.MinPulseWidthUs
	if angle == 0 {
		delay = 0
	}
	for i := 0; i < n; i++ {
		dst = append(dst, Edge{AtUs: settle + uint32(i)*delay, Channel: rank(angle, n, i), High: true})
	}
	for i := 0; i < n; i++ {
		dst = append(dst, Edge{AtUs: settle + width + uint32(i)*delay, Channel: rank(angle, n, i)})
	}
	return dst
}

// rank is the channel that fires i-th.
func rank(angle float32, n, i int) int {
	if angle < 0 {
		return n - 1 - i
	}
	return i
}

// Scheduler executes trigger plans on real pins with interrupts masked.
type Scheduler struct {
	cfg   Config
	pins  []hal.GPIOPin
	irq   hal.IRQ
	clock hal.Clock
	edges []Edge
}

// NewScheduler configures the trigger pins as outputs.
func NewScheduler(cfg Config, pins []hal.GPIOPin, irq hal.IRQ, clock hal.Clock) (*Scheduler, error) {
	if len(pins) != cfg.Channels() {
		return nil, fmt.Errorf("sonar: %d trigger pins for %d channels", len(pins), cfg.Channels())
	}
	for i, p := range pins {
		if p == nil {
			return nil, fmt.Errorf("sonar: trigger P%d: %w", cfg.Triggers[i], hal.ErrNoPin)
		}
		if err := p.Configure(hal.GPIOModeOutput, hal.GPIOPullNone); err != nil {
			return nil, fmt.Errorf("sonar: trigger P%d: %w", cfg.Triggers[i], err)
		}
	}
	return &Scheduler{
		cfg:   cfg,
		pins:  pins,
		irq:   irq,
		clock: clock,
		edges: make([]Edge, 0, 3*cfg.Channels()),
	}, nil
}

// Fire runs one trigger sequence for angle. Interrupts stay masked for the
// whole sequence; write errors do not stop it and the first one is
// returned after interrupts are restored.
func (s *Scheduler) Fire(angle float32) error {
	delay := s.cfg.TimeDelayUs(angle)
	width := s.cfg.PulseWidthUs(angle)
	s.edges = s.cfg.appendEdges(s.edges[:0], angle, delay, width)

	var (
		first  error
		failed int
		now    uint32
	)
	state := s.irq.Disable()
	for _, e := range s.edges {
		if e.AtUs > now {
			s.clock.DelayMicros(e.AtUs - now)
			now = e.AtUs
		}
		if err := s.pins[e.Channel].Write(e.High); err != nil {
			if first == nil {
				first = err
			}
			failed++
		}
	}
	s.irq.Restore(state)

	if first != nil {
		return fmt.Errorf("sonar: trigger: %d of %d writes failed: %w", failed, len(s.edges), first)
	}
	return nil
}
