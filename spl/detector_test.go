package spl

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"microsense/kernel"
)

type recordBus struct {
	msgs []kernel.Message
}

func (r *recordBus) Publish(m kernel.Message) { r.msgs = append(r.msgs, m) }

func sine(n int, bias, amp float64) []int16 {
	return tone(n, bias, amp, 16)
}

// tone returns n samples of a sine with the given period in samples.
func tone(n int, bias, amp, period float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		out[i] = int16(math.Round(bias + amp*math.Sin(2*math.Pi*float64(i)/period)))
	}
	return out
}

// feed runs samples through d one window at a time and returns the
// levels it reported.
func feed(d *Detector, samples []int16) []float32 {
	w := d.cfg.Window
	var levels []float32
	for i := 0; i+w <= len(samples); i += w {
		levels = append(levels, d.Process(samples[i:i+w]))
	}
	return levels
}

func repeat(w []int16, times int) []int16 {
	out := make([]int16, 0, len(w)*times)
	for i := 0; i < times; i++ {
		out = append(out, w...)
	}
	return out
}

func TestNormalizerRemovesOffset(t *testing.T) {
	n := &Normalizer{Gain: 2, Alpha: 1.0 / 4096}
	in := []int16{2040, 2050, 2060, 2050}
	out := make([]float32, len(in))
	n.Process(in, out)
	want := []float32{-20, 0, 20, 0}
	for i := range want {
		if math.Abs(float64(out[i]-want[i])) > 0.1 {
			t.Fatalf("out = %v, want ~%v", out, want)
		}
	}
}

func TestNormalizerTracksOffsetAcrossBlocks(t *testing.T) {
	n := &Normalizer{Gain: 1, Alpha: 1.0 / 4096}
	out := make([]float32, 64)
	n.Process(repeat([]int16{2048}, 64), out)

	step := repeat([]int16{1000}, 64)
	for i := 0; i < 1000; i++ {
		n.Process(step, out)
	}
	if off := n.Offset(); math.Abs(float64(off)-1000) > 1 {
		t.Fatalf("Offset() = %v, want ~1000", off)
	}
	if math.Abs(float64(out[63])) > 1 {
		t.Fatalf("out[63] = %v, want ~0", out[63])
	}
}

func TestDetectorSilenceFloors(t *testing.T) {
	d, err := NewDetector(DefaultDetectorConfig(), nil, nil)
	if err != nil {
		t.Fatalf("NewDetector() err = %v", err)
	}
	flat := repeat([]int16{2048}, 64)
	if l := d.Process(flat); l != 40 {
		t.Fatalf("Process(flat) = %v, want 40", l)
	}
	if d.Level() != 40 {
		t.Fatalf("Level() = %v, want 40", d.Level())
	}
}

func TestDetectorFullScaleSine(t *testing.T) {
	d, err := NewDetector(DefaultDetectorConfig(), nil, nil)
	if err != nil {
		t.Fatalf("NewDetector() err = %v", err)
	}
	levels := feed(d, repeat(sine(64, 2048, 2047), 100))
	if l := levels[len(levels)-1]; math.Abs(float64(l)-105) > 0.5 {
		t.Fatalf("level(full scale) = %v, want ~105", l)
	}
	levels = feed(d, repeat(sine(64, 2048, 2047/10.0), 100))
	if l := levels[len(levels)-1]; math.Abs(float64(l)-85) > 0.5 {
		t.Fatalf("level(-20 dB) = %v, want ~85", l)
	}
}

// Tones whose period is longer than a window must still read steadily.
func TestDetectorLowFrequencyTonesAreSteady(t *testing.T) {
	const rate = 50_000
	for _, hz := range []float64{100, 440, 3125} {
		d, err := NewDetector(DefaultDetectorConfig(), nil, nil)
		if err != nil {
			t.Fatalf("NewDetector() err = %v", err)
		}
		levels := feed(d, tone(rate, 2048, 2047, rate/hz))
		settled := levels[len(levels)/2:]
		lo, hi := settled[0], settled[0]
		for _, l := range settled {
			lo = min(lo, l)
			hi = max(hi, l)
		}
		if lo < 104 || hi > 106 {
			t.Fatalf("%v Hz full scale read %v..%v dB, want 105 ±1", hz, lo, hi)
		}
	}
}

func TestDetectorThresholdEvents(t *testing.T) {
	bus := &recordBus{}
	cfg := DefaultDetectorConfig()
	cfg.HighThreshold = 100
	d, err := NewDetector(cfg, bus, nil)
	if err != nil {
		t.Fatalf("NewDetector() err = %v", err)
	}
	quiet := repeat(sine(64, 2048, 0), 300)
	loud := repeat(sine(64, 2048, 2047), 300)
	mid := repeat(sine(64, 2048, 300), 300)

	for _, w := range [][]int16{quiet, mid, loud, mid, quiet} {
		feed(d, w)
	}
	want := []kernel.Event{kernel.EvtLevelLow, kernel.EvtLevelHigh, kernel.EvtLevelLow}
	if len(bus.msgs) != len(want) {
		t.Fatalf("events = %+v, want %v", bus.msgs, want)
	}
	for i, m := range bus.msgs {
		if m.Event != want[i] || m.Source != kernel.SourceMicrophone {
			t.Fatalf("event %d = %+v, want %v from microphone", i, m, want[i])
		}
	}
	if v := bus.msgs[1].Value; v < 10_000 {
		t.Fatalf("high event Value = %d, want level in centi-dB", v)
	}
}

type lineLog struct {
	lines []string
}

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.WriteLineString(string(b)) }

// flakyMic plays loud windows, fails once at call fail, then plays silence
// until call stop, where it cancels the run.
type flakyMic struct {
	calls  int
	fail   int
	stop   int
	cancel context.CancelFunc
	period time.Duration
}

func (m *flakyMic) Enable(bool) error { return nil }

func (m *flakyMic) Read(buf []int16, period time.Duration) (int, error) {
	m.calls++
	m.period = period
	switch {
	case m.calls == m.fail:
		return 0, errors.New("adc stalled")
	case m.calls < m.fail:
		copy(buf, sine(len(buf), 2048, 2047))
	default:
		copy(buf, sine(len(buf), 2048, 0))
	}
	if m.calls == m.stop {
		m.cancel()
	}
	return len(buf), nil
}

func TestDetectorRunSurvivesReadError(t *testing.T) {
	d, err := NewDetector(DefaultDetectorConfig(), nil, nil)
	if err != nil {
		t.Fatalf("NewDetector() err = %v", err)
	}
	log := &lineLog{}
	d.SetLogger(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mic := &flakyMic{fail: 200, stop: 600, cancel: cancel}
	if err := d.Run(ctx, mic); err != context.Canceled {
		t.Fatalf("Run() err = %v, want %v", err, context.Canceled)
	}
	if mic.calls != mic.stop {
		t.Fatalf("mic reads = %d, want %d", mic.calls, mic.stop)
	}
	if mic.period != 20*time.Microsecond {
		t.Fatalf("sample period = %v, want 20µs", mic.period)
	}
	if l := d.Level(); l > 50 {
		t.Fatalf("Level() = %v after silence, want the level to keep updating", l)
	}
	if len(log.lines) != 2 || !strings.Contains(log.lines[0], "adc stalled") {
		t.Fatalf("log = %q, want one error and one recovery line", log.lines)
	}
}

func TestDetectorConfigValidate(t *testing.T) {
	cfg := DefaultDetectorConfig()
	cfg.LowThreshold = 110
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil with low above high, want error")
	}
	cfg = DefaultDetectorConfig()
	cfg.Window = 1
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() = nil with window 1, want error")
	}
}
