//go:build tinygo && baremetal

package hal

import (
	"errors"
	"fmt"
	"image/color"
	"machine"
	"runtime/interrupt"
	"time"

	"tinygo.org/x/drivers/microbitmatrix"
	"tinygo.org/x/drivers/ws2812"
)

// maxPinHandlers bounds handler registration so interrupt dispatch never
// walks a growing slice.
const maxPinHandlers = 4

var errTooManyHandlers = errors.New("too many handlers")

// mcuPulse timestamps both edges of an input pin in the GPIOTE interrupt.
type mcuPulse struct {
	pin      *mcuPin
	clock    *tinyGoClock
	timer    pulseTimer
	handlers [maxPinHandlers]PulseHandler
	n        int
}

func newMCUPulse(pin *mcuPin, clock *tinyGoClock) *mcuPulse {
	return &mcuPulse{pin: pin, clock: clock}
}

func (p *mcuPulse) Name() string { return p.pin.name }

func (p *mcuPulse) OnPulse(h PulseHandler) error {
	if h == nil {
		return fmt.Errorf("pulse: pin %s: nil handler", p.pin.name)
	}
	if p.n == len(p.handlers) {
		return fmt.Errorf("pulse: pin %s: %w", p.pin.name, errTooManyHandlers)
	}

	state := interrupt.Disable()
	p.handlers[p.n] = h
	p.n++
	first := p.n == 1
	interrupt.Restore(state)

	if !first {
		return nil
	}
	if err := p.pin.Configure(GPIOModeInput, GPIOPullNone); err != nil {
		return err
	}
	return p.pin.pin.SetInterrupt(machine.PinToggle, p.edge)
}

func (p *mcuPulse) edge(pin machine.Pin) {
	high, width, ok := p.timer.edge(pin.Get(), p.clock.Micros())
	if !ok {
		return
	}
	for i := 0; i < p.n; i++ {
		p.handlers[i](high, width)
	}
}

// debounce ignores presses closer together than this.
const debounce = 150 * time.Millisecond

type tinyGoButton struct {
	pin  machine.Pin
	last time.Time
	fns  [maxPinHandlers]func()
	n    int
}

func (b *tinyGoButton) OnClick(fn func()) error {
	if fn == nil {
		return fmt.Errorf("button: nil click handler")
	}
	if b.n == len(b.fns) {
		return fmt.Errorf("button: %w", errTooManyHandlers)
	}

	state := interrupt.Disable()
	b.fns[b.n] = fn
	b.n++
	first := b.n == 1
	interrupt.Restore(state)

	if !first {
		return nil
	}
	b.pin.Configure(machine.PinConfig{Mode: machine.PinInput})
	return b.pin.SetInterrupt(machine.PinFalling, b.press)
}

func (b *tinyGoButton) press(machine.Pin) {
	now := time.Now()
	if now.Sub(b.last) < debounce {
		return
	}
	b.last = now
	for i := 0; i < b.n; i++ {
		b.fns[i]()
	}
}

type tinyGoButtons struct {
	a, b tinyGoButton
}

func newTinyGoButtons() *tinyGoButtons {
	return &tinyGoButtons{
		a: tinyGoButton{pin: machine.BUTTONA},
		b: tinyGoButton{pin: machine.BUTTONB},
	}
}

func (bs *tinyGoButtons) A() Button { return &bs.a }
func (bs *tinyGoButtons) B() Button { return &bs.b }

// tinyGoMatrix wraps the multiplexed 5x5 display. The driver only lights
// one row per scan step, so a goroutine keeps refreshing it.
type tinyGoMatrix struct {
	dev     microbitmatrix.Device
	started bool
}

func newTinyGoMatrix() *tinyGoMatrix {
	m := &tinyGoMatrix{dev: microbitmatrix.New()}
	m.dev.Configure(microbitmatrix.Config{})
	return m
}

func (m *tinyGoMatrix) Size() (x, y int16) { return m.dev.Size() }

func (m *tinyGoMatrix) SetPixel(x, y int16, c color.RGBA) { m.dev.SetPixel(x, y, c) }

func (m *tinyGoMatrix) ClearDisplay() { m.dev.ClearDisplay() }

// Display starts the refresh loop on first use. Pixel writes go straight
// to the driver buffer, so later calls have nothing to flush.
func (m *tinyGoMatrix) Display() error {
	if m.started {
		return nil
	}
	m.started = true
	go func() {
		for {
			m.dev.Display()
			time.Sleep(time.Millisecond)
		}
	}()
	return nil
}

type tinyGoStrip struct {
	dev    ws2812.Device
	pixels int
}

func newTinyGoStrip(pin machine.Pin, pixels int) *tinyGoStrip {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &tinyGoStrip{dev: ws2812.New(pin), pixels: pixels}
}

func (s *tinyGoStrip) Len() int { return s.pixels }

func (s *tinyGoStrip) Write(buf []byte) (int, error) {
	if len(buf) > s.pixels*BytesPerPixel {
		return 0, fmt.Errorf("strip: frame of %d bytes exceeds %d pixels", len(buf), s.pixels)
	}
	state := interrupt.Disable()
	n, err := s.dev.Write(buf)
	interrupt.Restore(state)
	return n, err
}

// tinyGoMic samples the on-board MEMS microphone through SAADC.
type tinyGoMic struct {
	adc   machine.ADC
	run   machine.Pin
	clock *tinyGoClock
}

func newTinyGoMic(in, run machine.Pin, clock *tinyGoClock) *tinyGoMic {
	machine.InitADC()
	adc := machine.ADC{Pin: in}
	adc.Configure(machine.ADCConfig{})
	run.Configure(machine.PinConfig{Mode: machine.PinOutput})
	run.Low()
	return &tinyGoMic{adc: adc, run: run, clock: clock}
}

func (m *tinyGoMic) Enable(on bool) error {
	m.run.Set(on)
	return nil
}

// Read paces samples by spinning on the µs counter; SAADC conversions
// already take most of a 20 µs slot.
func (m *tinyGoMic) Read(buf []int16, period time.Duration) (int, error) {
	step := uint64(period / time.Microsecond)
	if step == 0 {
		step = 1
	}
	next := m.clock.Micros()
	for i := range buf {
		for m.clock.Micros() < next {
		}
		// Get scales the 12-bit result to 16 bits.
		buf[i] = int16(m.adc.Get() >> 4)
		next += step
	}
	return len(buf), nil
}
