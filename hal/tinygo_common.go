//go:build tinygo && baremetal

package hal

import (
	"device/arm"
	"machine"
	"runtime/interrupt"
	"time"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type uartSerial struct {
	uart *machine.UART
}

func (s *uartSerial) Read(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Read(p)
}

func (s *uartSerial) Write(p []byte) (int, error) {
	if s.uart == nil {
		return 0, ErrNotImplemented
	}
	return s.uart.Write(p)
}

// spinsPerMicro is the busy loop count for 1 µs on the 64 MHz nRF52833.
// One iteration is a nop plus the loop branch, about four cycles.
const spinsPerMicro = 16

type tinyGoClock struct {
	boot time.Time
}

func newTinyGoClock() *tinyGoClock {
	return &tinyGoClock{boot: time.Now()}
}

func (c *tinyGoClock) Millis() uint32 {
	return uint32(time.Since(c.boot) / time.Millisecond)
}

func (c *tinyGoClock) Micros() uint64 {
	return uint64(time.Since(c.boot) / time.Microsecond)
}

// DelayMicros counts cycles rather than reading the RTC: the RTC ticks at
// 32768 Hz, far too coarse for trigger skew.
func (c *tinyGoClock) DelayMicros(us uint32) {
	for n := us * spinsPerMicro; n > 0; n-- {
		arm.Asm("nop")
	}
}

func (c *tinyGoClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

type tinyGoIRQ struct{}

func (tinyGoIRQ) Disable() IRQState {
	return IRQState(interrupt.Disable())
}

func (tinyGoIRQ) Restore(state IRQState) {
	interrupt.Restore(interrupt.State(state))
}
