package hal

import "image/color"

// BytesPerPixel is the size of one WS2812 pixel on the wire (GRB).
const BytesPerPixel = 3

// PutGRB stores c at pixel index i of a GRB wire buffer.
func PutGRB(buf []byte, i int, c color.RGBA) {
	off := i * BytesPerPixel
	if off < 0 || off+BytesPerPixel > len(buf) {
		return
	}
	buf[off+0] = c.G
	buf[off+1] = c.R
	buf[off+2] = c.B
}

// GRBAt decodes pixel index i of a GRB wire buffer.
func GRBAt(buf []byte, i int) color.RGBA {
	off := i * BytesPerPixel
	if off < 0 || off+BytesPerPixel > len(buf) {
		return color.RGBA{}
	}
	return color.RGBA{G: buf[off+0], R: buf[off+1], B: buf[off+2], A: 0xFF}
}

// lit reports whether c should light a monochrome matrix pixel.
func lit(c color.RGBA) bool {
	return c.R|c.G|c.B != 0
}

// visible scales a dim LED colour so that it stays readable on a monitor.
// Channel ratios are kept; the brightest channel is stretched to 255.
func visible(c color.RGBA) color.RGBA {
	m := c.R
	if c.G > m {
		m = c.G
	}
	if c.B > m {
		m = c.B
	}
	if m == 0 {
		return color.RGBA{A: 0xFF}
	}
	return color.RGBA{
		R: uint8(uint16(c.R) * 255 / uint16(m)),
		G: uint8(uint16(c.G) * 255 / uint16(m)),
		B: uint8(uint16(c.B) * 255 / uint16(m)),
		A: 0xFF,
	}
}
