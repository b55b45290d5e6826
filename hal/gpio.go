package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIO provides access to general-purpose IO pins.
//
// Pin ids are edge connector numbers (P0..P20 on a micro:bit).
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

type virtualGPIO struct {
	pins []*virtualPin
}

func (g *virtualGPIO) PinCount() int {
	if g == nil {
		return 0
	}
	return len(g.pins)
}

func (g *virtualGPIO) Pin(id int) GPIOPin {
	p := g.pin(id)
	if p == nil {
		return nil
	}
	return p
}

func (g *virtualGPIO) pin(id int) *virtualPin {
	if g == nil || id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

// virtualPin is an in-memory pin. Output writes are reported to an optional
// watcher; input levels can be driven from outside with drive, which feeds
// the pulse timer.
type virtualPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	mode  GPIOMode
	pull  GPIOPull
	level bool

	watch    func(level bool)
	pulse    pulseTimer
	handlers []PulseHandler
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{
		name: name,
		caps: caps,
		mode: GPIOModeInput,
		pull: GPIOPullNone,
	}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}

	p.mode = mode
	p.pull = pull
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeInput && p.mode != GPIOModeOutput {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	if p.mode != GPIOModeOutput {
		p.mu.Unlock()
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	changed := p.level != level
	p.level = level
	watch := p.watch
	p.mu.Unlock()

	if changed && watch != nil {
		watch(level)
	}
	return nil
}

// OnPulse registers a pulse handler; the pin must be able to act as input.
func (p *virtualPin) OnPulse(h PulseHandler) error {
	if h == nil {
		return fmt.Errorf("gpio: pin %s: nil pulse handler", p.name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.caps&GPIOCapInput == 0 {
		return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
	}
	p.handlers = append(p.handlers, h)
	return nil
}

// drive sets an input level from outside at time nowUs and dispatches the
// completed pulse, if any, to the registered handlers.
func (p *virtualPin) drive(level bool, nowUs uint64) {
	p.mu.Lock()
	if p.level == level {
		p.mu.Unlock()
		return
	}
	p.level = level
	high, width, ok := p.pulse.edge(level, nowUs)
	handlers := p.handlers
	p.mu.Unlock()

	if !ok {
		return
	}
	for _, h := range handlers {
		h(high, width)
	}
}

// pulseTimer turns timestamped edges into pulse widths.
type pulseTimer struct {
	seen   bool
	lastUs uint64
}

// edge records a transition to level at nowUs. It returns the level and
// width of the phase that just ended; ok is false for the very first edge.
func (t *pulseTimer) edge(level bool, nowUs uint64) (high bool, widthUs uint32, ok bool) {
	if !t.seen {
		t.seen = true
		t.lastUs = nowUs
		return false, 0, false
	}
	d := nowUs - t.lastUs
	if nowUs < t.lastUs {
		d = 0
	}
	t.lastUs = nowUs
	if d > uint64(^uint32(0)) {
		d = uint64(^uint32(0))
	}
	// A rising edge ends a low phase, a falling edge ends a high phase.
	return !level, uint32(d), true
}
