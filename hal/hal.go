package hal

import (
	"errors"
	"image/color"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")
	ErrNoPin          = errors.New("no such pin")
)

// PulseHandler receives one completed pulse from an input pin.
//
// high reports the level of the phase that just ended: true when a high
// phase finished on a falling edge, false when a low phase finished on a
// rising edge. widthUs is the duration of that phase.
//
// Handlers run in interrupt context on the MCU: bounded arithmetic only.
type PulseHandler func(high bool, widthUs uint32)

// PulseInput measures pulse widths on a digital input.
type PulseInput interface {
	Name() string
	OnPulse(h PulseHandler) error
}

// Button delivers click notifications.
type Button interface {
	OnClick(fn func()) error
}

// Buttons are the two front buttons of the board.
type Buttons interface {
	A() Button
	B() Button
}

// Matrix is a small monochrome LED display.
//
// The method set matches tinygo.org/x/drivers.Displayer so it can be drawn
// on with tinyfont.
type Matrix interface {
	Size() (x, y int16)
	SetPixel(x, y int16, c color.RGBA)
	Display() error
	ClearDisplay()
}

// Strip transmits raw GRB bytes to a chain of addressable LEDs.
type Strip interface {
	Len() int
	Write(buf []byte) (int, error)
}

// Microphone samples an analog microphone.
type Microphone interface {
	// Enable powers the microphone amplifier.
	Enable(on bool) error
	// Read fills buf with consecutive samples taken every period.
	Read(buf []int16, period time.Duration) (int, error)
}

// Serial is a byte-oriented serial line.
type Serial interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
}

// Clock provides the board timebase.
type Clock interface {
	// Millis is the system time in milliseconds since boot.
	Millis() uint32
	// Micros is a monotonic microsecond counter.
	Micros() uint64
	// DelayMicros busy-waits; it is safe with interrupts disabled.
	DelayMicros(us uint32)
	// Sleep yields for d.
	Sleep(d time.Duration)
}

// IRQState is an opaque saved interrupt mask.
type IRQState uintptr

// IRQ masks interrupts around timing-critical sections.
type IRQ interface {
	Disable() IRQState
	Restore(state IRQState)
}

// HAL provides the only contact point between the firmware and the board.
type HAL interface {
	Logger() Logger
	GPIO() GPIO
	Pulse(pin int) (PulseInput, error)
	Buttons() Buttons
	Matrix() Matrix
	Strip(pin int, pixels int) (Strip, error)
	Microphone() Microphone
	Serial() Serial
	Clock() Clock
	IRQ() IRQ
}
