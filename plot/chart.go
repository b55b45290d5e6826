package plot

import (
	"fmt"
	"strings"
)

// Cell contents of the chart grid.
const (
	cellEmpty byte = iota
	cellTrace0
	cellTrace1
	cellBoth
)

// grid places the newest width samples of both traces on a width x height
// grid, newest at the right, on a shared scale from 0 to top.
func grid(d0, d1 []uint32, width, height int) (cells [][]byte, top uint32) {
	cells = make([][]byte, height)
	for i := range cells {
		cells[i] = make([]byte, width)
	}
	if width <= 0 || height <= 0 {
		return cells, 0
	}
	d0 = tail(d0, width)
	d1 = tail(d1, width)

	top = 1
	for _, v := range d0 {
		top = max(top, v)
	}
	for _, v := range d1 {
		top = max(top, v)
	}

	place := func(vals []uint32, mark byte) {
		off := width - len(vals)
		for i, v := range vals {
			row := height - 1 - int(uint64(v)*uint64(height-1)/uint64(top))
			cells[row][off+i] |= mark
		}
	}
	place(d0, cellTrace0)
	place(d1, cellTrace1)
	return cells, top
}

func tail(v []uint32, n int) []uint32 {
	if len(v) > n {
		return v[len(v)-n:]
	}
	return v
}

// axisWidth is the width of the "1234mm │" label column.
const axisWidth = 8

// Chart renders both traces with a distance axis on the left.
func Chart(d0, d1 []uint32, width, height int) string {
	plotW := width - axisWidth
	if plotW < 1 || height < 2 {
		return ""
	}
	cells, top := grid(d0, d1, plotW, height)

	var b strings.Builder
	for y, row := range cells {
		label := ""
		switch y {
		case 0:
			label = fmt.Sprintf("%dmm", top)
		case height - 1:
			label = "0mm"
		}
		b.WriteString(StyleAxis.Render(fmt.Sprintf("%6s │", label)))
		for _, c := range row {
			switch c {
			case cellTrace0:
				b.WriteString(StyleTrace0.Render("•"))
			case cellTrace1:
				b.WriteString(StyleTrace1.Render("•"))
			case cellBoth:
				b.WriteString(StyleOverlap.Render("•"))
			default:
				b.WriteByte(' ')
			}
		}
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
