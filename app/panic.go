package app

import (
	"fmt"
	"image/color"
	"strings"

	"microsense/hal"
	"microsense/kernel"
)

func installPanicHandler(h hal.HAL) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("panic: listener=%d source=%v event=%v panic=%v",
				info.Listener, info.Message.Source, info.Message.Event, info.Value))
			for _, line := range strings.Split(string(info.Stack), "\n") {
				if line == "" {
					continue
				}
				l.WriteLineString(line)
			}
		}

		m := h.Matrix()
		if m == nil {
			return
		}
		drawCross(m)
		_ = m.Display()
	})
}

// drawCross fills the matrix diagonals, the board's "something broke" sign.
func drawCross(m hal.Matrix) {
	on := color.RGBA{R: 255, A: 255}
	w, ht := m.Size()
	m.ClearDisplay()
	for i := int16(0); i < w && i < ht; i++ {
		m.SetPixel(i, i, on)
		m.SetPixel(w-1-i, i, on)
	}
}
