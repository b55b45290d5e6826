//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// hostPinCount covers the micro:bit edge connector P0..P20.
const hostPinCount = 21

type hostHAL struct {
	logger  *hostLogger
	gpio    *virtualGPIO
	clock   *hostClock
	gate    *irqGate
	sonar   *sonarSim
	mic     *hostMic
	matrix  *hostMatrix
	buttons *hostButtons
	serial  Serial

	mu     sync.Mutex
	strips map[int]*hostStrip
}

// New returns a host HAL with the default sonar simulation.
func New() HAL {
	return newHostHAL(DefaultSonarSimConfig())
}

// NewWithSonar returns a host HAL with a custom sonar simulation.
func NewWithSonar(cfg SonarSimConfig) HAL {
	return newHostHAL(cfg)
}

func newHostHAL(sonarCfg SonarSimConfig) *hostHAL {
	logger := &hostLogger{w: os.Stderr}
	clock := newHostClock()
	gate := &irqGate{}

	pins := make([]*virtualPin, 0, hostPinCount)
	for i := 0; i < hostPinCount; i++ {
		pins = append(pins, newVirtualPin(fmt.Sprintf("P%d", i), GPIOCapInput|GPIOCapOutput|GPIOCapPullUp|GPIOCapPullDown))
	}
	gpio := &virtualGPIO{pins: pins}

	sonar := newSonarSim(sonarCfg, gate, clock)
	sonar.attach(gpio)

	return &hostHAL{
		logger:  logger,
		gpio:    gpio,
		clock:   clock,
		gate:    gate,
		sonar:   sonar,
		mic:     newHostMic(clock),
		matrix:  &hostMatrix{},
		buttons: &hostButtons{},
		serial:  &hostSerial{w: os.Stdout},
		strips:  make(map[int]*hostStrip),
	}
}

func (h *hostHAL) Logger() Logger         { return h.logger }
func (h *hostHAL) GPIO() GPIO             { return h.gpio }
func (h *hostHAL) Buttons() Buttons       { return h.buttons }
func (h *hostHAL) Matrix() Matrix         { return h.matrix }
func (h *hostHAL) Microphone() Microphone { return h.mic }
func (h *hostHAL) Serial() Serial         { return h.serial }
func (h *hostHAL) Clock() Clock           { return h.clock }
func (h *hostHAL) IRQ() IRQ               { return hostIRQ{gate: h.gate} }

func (h *hostHAL) Pulse(pin int) (PulseInput, error) {
	p := h.gpio.pin(pin)
	if p == nil {
		return nil, fmt.Errorf("pulse: P%d: %w", pin, ErrNoPin)
	}
	return p, nil
}

func (h *hostHAL) Strip(pin int, pixels int) (Strip, error) {
	if h.gpio.pin(pin) == nil {
		return nil, fmt.Errorf("strip: P%d: %w", pin, ErrNoPin)
	}
	if pixels <= 0 {
		return nil, fmt.Errorf("strip: P%d: invalid pixel count %d", pin, pixels)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.strips[pin]
	if !ok {
		s = newHostStrip(pin, pixels)
		h.strips[pin] = s
	}
	return s, nil
}

// firstStrip returns the strip with the lowest pin number, if any.
func (h *hostHAL) firstStrip() *hostStrip {
	h.mu.Lock()
	defer h.mu.Unlock()
	var first *hostStrip
	for _, s := range h.strips {
		if first == nil || s.pin < first.pin {
			first = s
		}
	}
	return first
}

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}
