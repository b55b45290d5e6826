package plot

import (
	"bufio"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.bug.st/serial"
)

// Stdin is the port name that reads telemetry from standard input.
const Stdin = "-"

// Open returns a telemetry stream: a serial port at baud 8N1, or standard
// input for Stdin.
func Open(port string, baud int) (io.ReadCloser, error) {
	if port == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port, err)
	}
	return p, nil
}

// Ports lists the serial ports present on the host.
func Ports() ([]string, error) {
	return serial.GetPortsList()
}

// Sender receives messages for the UI; *tea.Program satisfies it.
type Sender interface {
	Send(tea.Msg)
}

// Stream reads telemetry lines from r and sends one message per line:
// SampleMsg for a parsed line, BadLineMsg otherwise. It sends SourceDoneMsg
// when r ends.
func Stream(r io.Reader, to Sender) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s, err := ParseLine(sc.Text())
		if err != nil {
			to.Send(BadLineMsg{Err: err})
			continue
		}
		to.Send(SampleMsg(s))
	}
	to.Send(SourceDoneMsg{Err: sc.Err()})
}
