//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
)

// Microphone wiring on the micro:bit v2.
const (
	micInPin  = machine.P0_05
	runMicPin = machine.P0_20
)

type tinyGoHAL struct {
	logger  *uartLogger
	gpio    *mcuGPIO
	clock   *tinyGoClock
	buttons *tinyGoButtons
	matrix  *tinyGoMatrix
	mic     *tinyGoMic
	serial  *uartSerial

	pulses [edgePinSlots]*mcuPulse
	strips [edgePinSlots]*tinyGoStrip
}

const edgePinSlots = 21

// New returns a micro:bit v2 HAL implementation.
//
// UART: UART0 on the USB interface chip, 115200 8N1.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	clock := newTinyGoClock()
	return &tinyGoHAL{
		logger:  &uartLogger{uart: uart},
		gpio:    newMCUGPIO(),
		clock:   clock,
		buttons: newTinyGoButtons(),
		matrix:  newTinyGoMatrix(),
		mic:     newTinyGoMic(micInPin, runMicPin, clock),
		serial:  &uartSerial{uart: uart},
	}
}

func (h *tinyGoHAL) Logger() Logger         { return h.logger }
func (h *tinyGoHAL) GPIO() GPIO             { return h.gpio }
func (h *tinyGoHAL) Buttons() Buttons       { return h.buttons }
func (h *tinyGoHAL) Matrix() Matrix         { return h.matrix }
func (h *tinyGoHAL) Microphone() Microphone { return h.mic }
func (h *tinyGoHAL) Serial() Serial         { return h.serial }
func (h *tinyGoHAL) Clock() Clock           { return h.clock }
func (h *tinyGoHAL) IRQ() IRQ               { return tinyGoIRQ{} }

func (h *tinyGoHAL) Pulse(pin int) (PulseInput, error) {
	mp := h.gpio.pin(pin)
	if mp == nil {
		return nil, fmt.Errorf("pulse: P%d: %w", pin, ErrNoPin)
	}
	if h.pulses[pin] == nil {
		h.pulses[pin] = newMCUPulse(mp, h.clock)
	}
	return h.pulses[pin], nil
}

func (h *tinyGoHAL) Strip(pin int, pixels int) (Strip, error) {
	mp := h.gpio.pin(pin)
	if mp == nil {
		return nil, fmt.Errorf("strip: P%d: %w", pin, ErrNoPin)
	}
	if pixels <= 0 {
		return nil, fmt.Errorf("strip: P%d: invalid pixel count %d", pin, pixels)
	}
	if h.strips[pin] == nil {
		h.strips[pin] = newTinyGoStrip(mp.pin, pixels)
	}
	return h.strips[pin], nil
}

type mcuGPIO struct {
	pins [edgePinSlots]*mcuPin
}

func newMCUGPIO() *mcuGPIO {
	edge := [edgePinSlots]machine.Pin{
		machine.P0, machine.P1, machine.P2, machine.P3, machine.P4,
		machine.P5, machine.P6, machine.P7, machine.P8, machine.P9,
		machine.P10, machine.P11, machine.P12, machine.P13, machine.P14,
		machine.P15, machine.P16, machine.NoPin, machine.NoPin, machine.P19,
		machine.P20,
	}
	g := &mcuGPIO{}
	for i, p := range edge {
		if p == machine.NoPin {
			continue
		}
		g.pins[i] = &mcuPin{name: fmt.Sprintf("P%d", i), pin: p}
	}
	return g
}

func (g *mcuGPIO) PinCount() int { return edgePinSlots }

func (g *mcuGPIO) Pin(id int) GPIOPin {
	p := g.pin(id)
	if p == nil {
		return nil
	}
	return p
}

func (g *mcuGPIO) pin(id int) *mcuPin {
	if id < 0 || id >= edgePinSlots {
		return nil
	}
	return g.pins[id]
}

type mcuPin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func (p *mcuPin) Name() string { return p.name }

func (p *mcuPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *mcuPin) Configure(mode GPIOMode, pull GPIOPull) error {
	var cfg machine.PinConfig
	switch mode {
	case GPIOModeOutput:
		cfg.Mode = machine.PinOutput
	case GPIOModeInput:
		switch pull {
		case GPIOPullNone:
			cfg.Mode = machine.PinInput
		case GPIOPullUp:
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			cfg.Mode = machine.PinInputPulldown
		default:
			return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *mcuPin) Read() (bool, error) {
	return p.pin.Get(), nil
}

func (p *mcuPin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}
