package hal

import "testing"

func TestPulseTimerEdges(t *testing.T) {
	var pt pulseTimer

	if _, _, ok := pt.edge(true, 100); ok {
		t.Fatal("first edge should not complete a pulse")
	}

	high, width, ok := pt.edge(false, 1_100)
	if !ok {
		t.Fatal("expected a pulse on the falling edge")
	}
	if !high || width != 1_000 {
		t.Fatalf("got high=%v width=%d, want high=true width=1000", high, width)
	}

	high, width, ok = pt.edge(true, 1_350)
	if !ok || high || width != 250 {
		t.Fatalf("got high=%v width=%d ok=%v, want low phase of 250", high, width, ok)
	}
}

func TestPulseTimerClockBackwards(t *testing.T) {
	var pt pulseTimer
	pt.edge(true, 500)
	_, width, ok := pt.edge(false, 100)
	if !ok || width != 0 {
		t.Fatalf("got width=%d ok=%v, want 0", width, ok)
	}
}

func TestVirtualPinWriteWatch(t *testing.T) {
	p := newVirtualPin("P2", GPIOCapInput|GPIOCapOutput)

	if err := p.Write(true); err == nil {
		t.Fatal("expected write on unconfigured pin to fail")
	}
	if err := p.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	var seen []bool
	p.watch = func(level bool) { seen = append(seen, level) }

	for _, level := range []bool{true, true, false, false, true} {
		if err := p.Write(level); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	want := []bool{true, false, true}
	if len(seen) != len(want) {
		t.Fatalf("watch calls = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("watch calls = %v, want %v", seen, want)
		}
	}

	level, err := p.Read()
	if err != nil || !level {
		t.Fatalf("Read = %v, %v; want true", level, err)
	}
}

func TestVirtualPinDrivePulses(t *testing.T) {
	p := newVirtualPin("P1", GPIOCapInput)

	type pulse struct {
		high  bool
		width uint32
	}
	var got []pulse
	if err := p.OnPulse(func(high bool, w uint32) { got = append(got, pulse{high, w}) }); err != nil {
		t.Fatalf("OnPulse: %v", err)
	}

	p.drive(true, 10)
	p.drive(true, 20) // no change, ignored
	p.drive(false, 2_010)
	p.drive(true, 2_510)

	if len(got) != 2 {
		t.Fatalf("pulses = %v, want 2", got)
	}
	if got[0] != (pulse{true, 2_000}) {
		t.Fatalf("pulse 0 = %+v", got[0])
	}
	if got[1] != (pulse{false, 500}) {
		t.Fatalf("pulse 1 = %+v", got[1])
	}
}

func TestVirtualPinOnPulseNeedsInput(t *testing.T) {
	p := newVirtualPin("LED", GPIOCapOutput)
	if err := p.OnPulse(func(bool, uint32) {}); err == nil {
		t.Fatal("expected error for output-only pin")
	}
	if err := p.OnPulse(nil); err == nil {
		t.Fatal("expected error for nil handler")
	}
}
