//go:build !tinygo && cgo

package hal

import (
	"context"
	"image"
	"image/color"

	"microsense/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	windowWidth  = 250
	windowHeight = 120

	matrixCell   = 20
	matrixOrigin = 10

	stripColumns = 8
	stripCell    = 13
	stripOriginX = 130
	stripOriginY = 10
)

var (
	colorBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xFF}
	colorLEDOff     = color.RGBA{R: 0x30, G: 0x08, B: 0x08, A: 0xFF}
	colorLEDOn      = color.RGBA{R: 0xFF, G: 0x20, B: 0x10, A: 0xFF}
	colorPixelOff   = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF}
)

// RunWindow starts a desktop window showing the 5x5 matrix and the LED
// strip, with the A/B keys acting as buttons. The firmware image runs on its
// own goroutine; closing the window cancels it. It blocks until the window
// closes or the image returns.
func RunWindow(run func(context.Context, HAL) error) error {
	h := newHostHAL(DefaultSonarSimConfig())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- run(ctx, h) }()

	g := &hostGame{h: h, done: done}
	ebiten.SetWindowTitle("microsense (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(windowWidth*3, windowHeight*3)
	ebiten.SetTPS(60)
	err := ebiten.RunGame(g)
	if err == ebiten.Termination {
		return g.err
	}
	return err
}

type hostGame struct {
	h     *hostHAL
	done  <-chan error
	err   error
	frame []byte
}

func (g *hostGame) Update() error {
	select {
	case err := <-g.done:
		g.err = err
		return ebiten.Termination
	default:
	}
	pollButtons(g.h.buttons)
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	m := g.h.matrix.snapshot()
	for y := 0; y < matrixHeight; y++ {
		for x := 0; x < matrixWidth; x++ {
			c := colorLEDOff
			if m[y][x] {
				c = colorLEDOn
			}
			x0 := matrixOrigin + x*matrixCell
			y0 := matrixOrigin + y*matrixCell
			fillRect(screen, x0, y0, matrixCell-4, matrixCell-4, c)
		}
	}

	s := g.h.firstStrip()
	if s == nil {
		return
	}
	if len(g.frame) != s.pixels*BytesPerPixel {
		g.frame = make([]byte, s.pixels*BytesPerPixel)
	}
	s.snapshot(g.frame)
	for i := 0; i < s.pixels; i++ {
		c := GRBAt(g.frame, i)
		if lit(c) {
			c = visible(c)
		} else {
			c = colorPixelOff
		}
		x0 := stripOriginX + (i%stripColumns)*stripCell
		y0 := stripOriginY + (i/stripColumns)*stripCell
		fillRect(screen, x0, y0, stripCell-2, stripCell-2, c)
	}
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}

func fillRect(dst *ebiten.Image, x, y, w, h int, c color.Color) {
	sub, ok := dst.SubImage(image.Rect(x, y, x+w, y+h)).(*ebiten.Image)
	if !ok {
		return
	}
	sub.Fill(c)
}
