package sonar

import (
	"io"
	"strconv"

	"microsense/kernel"
)

// Scroller shows text on the matrix.
type Scroller interface {
	ScrollInt(n int) error
	ScrollText(s string) error
}

// Telemetry reports the latest distances, either as a serial line
// "<ms> <d0> <d1>\n" or scrolled on the matrix followed by "mm".
type Telemetry struct {
	out    io.Writer
	scroll Scroller
	dist   *Distances
	millis func() uint32
	n      int
	buf    []byte
	vals   [MaxSonars]uint32
}

// NewSerialTelemetry writes one line per call to out.
func NewSerialTelemetry(out io.Writer, dist *Distances, channels int, millis func() uint32) *Telemetry {
	return &Telemetry{out: out, dist: dist, n: channels, millis: millis, buf: make([]byte, 0, 48)}
}

// NewMatrixTelemetry scrolls the distances on s.
func NewMatrixTelemetry(s Scroller, dist *Distances, channels int) *Telemetry {
	return &Telemetry{scroll: s, dist: dist, n: channels}
}

// Show reports the current distances. The triggering message is ignored.
func (t *Telemetry) Show(kernel.Message) error {
	vals := t.dist.Snapshot(t.vals[:t.n])
	if t.out != nil {
		t.buf = t.AppendLine(t.buf[:0], vals)
		_, err := t.out.Write(t.buf)
		return err
	}
	for _, v := range vals {
		if err := t.scroll.ScrollInt(int(v)); err != nil {
			return err
		}
	}
	return t.scroll.ScrollText("mm")
}

// AppendLine appends the telemetry line for vals to dst.
func (t *Telemetry) AppendLine(dst []byte, vals []uint32) []byte {
	dst = strconv.AppendUint(dst, uint64(t.millis()), 10)
	for _, v := range vals {
		dst = append(dst, ' ')
		dst = strconv.AppendUint(dst, uint64(v), 10)
	}
	return append(dst, '\n')
}
