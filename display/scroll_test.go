package display

import (
	"errors"
	"image/color"
	"testing"
	"time"
)

type fakeMatrix struct {
	pix      [5][5]bool
	frames   [][5][5]bool
	failOn   int
	displays int
}

func (m *fakeMatrix) Size() (x, y int16) { return 5, 5 }

func (m *fakeMatrix) SetPixel(x, y int16, c color.RGBA) {
	m.pix[y][x] = c.R|c.G|c.B != 0
}

func (m *fakeMatrix) Display() error {
	m.displays++
	if m.failOn > 0 && m.displays == m.failOn {
		return errors.New("display failed")
	}
	m.frames = append(m.frames, m.pix)
	return nil
}

func blank(f [5][5]bool) bool {
	for _, row := range f {
		for _, v := range row {
			if v {
				return false
			}
		}
	}
	return true
}

func TestScrollTextStartsAndEndsBlank(t *testing.T) {
	m := &fakeMatrix{}
	var slept time.Duration
	s := NewScroller(m, func(d time.Duration) { slept += d })

	if err := s.ScrollText("42"); err != nil {
		t.Fatalf("ScrollText() err = %v", err)
	}
	if len(m.frames) < 6 {
		t.Fatalf("frames = %d, want at least 6", len(m.frames))
	}
	if !blank(m.frames[0]) {
		t.Fatal("first frame is not blank")
	}
	if !blank(m.frames[len(m.frames)-1]) {
		t.Fatal("last frame is not blank")
	}

	lit := 0
	for _, f := range m.frames {
		if !blank(f) {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("no frame showed any text")
	}
	if want := time.Duration(len(m.frames)) * DefaultDelay; slept != want {
		t.Fatalf("slept %v, want %v", slept, want)
	}
}

func TestScrollLongerTextTakesMoreFrames(t *testing.T) {
	short, long := &fakeMatrix{}, &fakeMatrix{}
	nop := func(time.Duration) {}
	if err := NewScroller(short, nop).ScrollInt(5); err != nil {
		t.Fatalf("ScrollInt() err = %v", err)
	}
	if err := NewScroller(long, nop).ScrollText("1234mm"); err != nil {
		t.Fatalf("ScrollText() err = %v", err)
	}
	if len(long.frames) <= len(short.frames) {
		t.Fatalf("frames: long %d, short %d; want long > short", len(long.frames), len(short.frames))
	}
}

func TestScrollTextDisplayError(t *testing.T) {
	m := &fakeMatrix{failOn: 3}
	s := NewScroller(m, func(time.Duration) {})
	if err := s.ScrollText("-30"); err == nil {
		t.Fatal("ScrollText() err = nil, want display error")
	}
	if m.displays != 3 {
		t.Fatalf("Display() calls = %d, want 3", m.displays)
	}
}
