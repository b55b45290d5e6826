// Package spl turns a microphone into a sound pressure level meter shown on
// an RGB LED bar graph.
package spl

import (
	"fmt"
	"image/color"

	"microsense/hal"
)

// Layout is the LED grid: Cols cells per row, Rows identical rows, wired
// row after row.
type Layout struct {
	Cols int
	Rows int
}

// Pixels returns the number of LEDs.
func (l Layout) Pixels() int { return l.Cols * l.Rows }

// FrameBytes returns the wire size of one frame.
func (l Layout) FrameBytes() int { return l.Pixels() * hal.BytesPerPixel }

// Palette holds the colour of each bar cell, lowest level first.
type Palette []color.RGBA

// DefaultPalette is five green, two orange and one red cell at brightness br.
func DefaultPalette(br uint8) Palette {
	green := color.RGBA{G: br, A: 0xFF}
	orange := color.RGBA{G: br / 2, R: br, A: 0xFF}
	red := color.RGBA{R: br * 2, A: 0xFF}
	return Palette{green, green, green, green, green, orange, orange, red}
}

// FrameTable holds one pre-rendered frame per bar level. It is read-only
// once baked.
type FrameTable struct {
	layout Layout
	frames [][]byte
}

// Bake renders one frame per palette entry: frame j lights cells 0..j of
// every row with their palette colour and leaves the rest dark.
func Bake(p Palette, l Layout) (*FrameTable, error) {
	if l.Cols <= 0 || l.Rows <= 0 {
		return nil, fmt.Errorf("spl: invalid layout %dx%d", l.Cols, l.Rows)
	}
	if len(p) != l.Cols {
		return nil, fmt.Errorf("spl: palette has %d colours for %d cells", len(p), l.Cols)
	}

	t := &FrameTable{layout: l, frames: make([][]byte, len(p))}
	for j := range t.frames {
		f := make([]byte, l.FrameBytes())
		for row := 0; row < l.Rows; row++ {
			for cell := 0; cell <= j; cell++ {
				hal.PutGRB(f, row*l.Cols+cell, p[cell])
			}
		}
		t.frames[j] = f
	}
	return t, nil
}

// Levels returns the number of frames.
func (t *FrameTable) Levels() int { return len(t.frames) }

// Layout returns the grid the frames were baked for.
func (t *FrameTable) Layout() Layout { return t.layout }

// Frame returns the frame for level j. The slice must not be modified.
func (t *FrameTable) Frame(j int) []byte { return t.frames[j] }
