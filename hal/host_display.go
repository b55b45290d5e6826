//go:build !tinygo

package hal

import (
	"fmt"
	"image/color"
	"sync"
)

const (
	matrixWidth  = 5
	matrixHeight = 5
)

type hostMatrix struct {
	mu    sync.Mutex
	draw  [matrixHeight][matrixWidth]bool
	shown [matrixHeight][matrixWidth]bool
}

func (m *hostMatrix) Size() (x, y int16) { return matrixWidth, matrixHeight }

func (m *hostMatrix) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= matrixWidth || y >= matrixHeight {
		return
	}
	m.mu.Lock()
	m.draw[y][x] = lit(c)
	m.mu.Unlock()
}

func (m *hostMatrix) Display() error {
	m.mu.Lock()
	m.shown = m.draw
	m.mu.Unlock()
	return nil
}

func (m *hostMatrix) ClearDisplay() {
	m.mu.Lock()
	m.draw = [matrixHeight][matrixWidth]bool{}
	m.mu.Unlock()
}

func (m *hostMatrix) snapshot() [matrixHeight][matrixWidth]bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

type hostStrip struct {
	mu     sync.Mutex
	pin    int
	pixels int
	frame  []byte
	frames uint64
}

func newHostStrip(pin, pixels int) *hostStrip {
	return &hostStrip{pin: pin, pixels: pixels, frame: make([]byte, pixels*BytesPerPixel)}
}

func (s *hostStrip) Len() int { return s.pixels }

func (s *hostStrip) Write(buf []byte) (int, error) {
	if len(buf) > len(s.frame) {
		return 0, fmt.Errorf("strip: pin %d: frame of %d bytes exceeds %d pixels", s.pin, len(buf), s.pixels)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := copy(s.frame, buf)
	s.frames++
	return n, nil
}

func (s *hostStrip) snapshot(dst []byte) (frames uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(dst, s.frame)
	return s.frames
}

type hostButton struct {
	mu  sync.Mutex
	fns []func()
}

func (b *hostButton) OnClick(fn func()) error {
	if fn == nil {
		return fmt.Errorf("button: nil click handler")
	}
	b.mu.Lock()
	b.fns = append(b.fns, fn)
	b.mu.Unlock()
	return nil
}

func (b *hostButton) click() {
	b.mu.Lock()
	fns := b.fns
	b.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type hostButtons struct {
	a, b hostButton
}

func (bs *hostButtons) A() Button { return &bs.a }
func (bs *hostButtons) B() Button { return &bs.b }
