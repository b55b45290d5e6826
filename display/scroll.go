// Package display renders text on small LED matrices.
package display

import (
	"image/color"
	"strconv"
	"sync"
	"time"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

// DefaultDelay is the time each scroll step stays on screen.
const DefaultDelay = 120 * time.Millisecond

var on = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Scroller moves text right to left across a display using the TomThumb
// bitmap font, which fits a 5 pixel tall matrix.
//
// Scroll calls are serialized; a second caller waits for the first text to
// leave the screen.
type Scroller struct {
	mu    sync.Mutex
	d     drivers.Displayer
	sleep func(time.Duration)
	font  tinyfont.Fonter

	// Delay is the time between scroll steps.
	Delay time.Duration
}

// NewScroller returns a scroller drawing on d. sleep paces the steps; nil
// uses time.Sleep.
func NewScroller(d drivers.Displayer, sleep func(time.Duration)) *Scroller {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Scroller{d: d, sleep: sleep, font: &tinyfont.TomThumb, Delay: DefaultDelay}
}

// ScrollInt scrolls the decimal form of n.
func (s *Scroller) ScrollInt(n int) error {
	return s.ScrollText(strconv.Itoa(n))
}

// ScrollText scrolls text across the display until it has fully left the
// left edge. It returns the first display error.
func (s *Scroller) ScrollText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.d.Size()
	c := render(s.font, text, w, h)
	for off := int16(0); off+w <= c.w; off++ {
		c.blit(s.d, off)
		if err := s.d.Display(); err != nil {
			return err
		}
		s.sleep(s.Delay)
	}
	return nil
}

// render draws text onto a canvas padded by one screen width on each side,
// so the first frame is blank and the last frame is blank again.
func render(font tinyfont.Fonter, text string, screenW, screenH int16) *canvas {
	_, textW := tinyfont.LineWidth(font, text)
	c := newCanvas(screenW+int16(textW)+screenW, screenH)
	// TomThumb glyphs sit on the baseline and rise at most five rows.
	tinyfont.WriteLine(c, font, screenW, screenH, text, on)
	return c
}

// canvas is an offscreen monochrome bitmap.
type canvas struct {
	w, h int16
	pix  []bool
}

func newCanvas(w, h int16) *canvas {
	return &canvas{w: w, h: h, pix: make([]bool, int(w)*int(h))}
}

func (c *canvas) Size() (x, y int16) { return c.w, c.h }

func (c *canvas) SetPixel(x, y int16, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.pix[int(y)*int(c.w)+int(x)] = col.R|col.G|col.B != 0
}

func (c *canvas) Display() error { return nil }

func (c *canvas) at(x, y int16) bool {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return false
	}
	return c.pix[int(y)*int(c.w)+int(x)]
}

// blit copies the screen-sized window starting at column off onto d.
func (c *canvas) blit(d drivers.Displayer, off int16) {
	w, h := d.Size()
	for y := int16(0); y < h; y++ {
		for x := int16(0); x < w; x++ {
			col := color.RGBA{}
			if c.at(off+x, y) {
				col = on
			}
			d.SetPixel(x, y, col)
		}
	}
}
