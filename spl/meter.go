package spl

import (
	"fmt"
	"time"
)

// Config describes the meter image.
type Config struct {
	// StripPin is the edge connector pin driving the LED data line.
	StripPin int
	Layout   Layout
	// Brightness scales the palette; the red cell is twice as bright.
	Brightness uint8
	// NoiseFloor and Step map dB to bar height.
	NoiseFloor float32
	Step       float32
	// Period is the display refresh interval.
	Period   time.Duration
	Detector DetectorConfig
}

// DefaultConfig drives an 8x4 NeoPixel FeatherWing on P1.
func DefaultConfig() Config {
	return Config{
		StripPin:   1,
		Layout:     Layout{Cols: 8, Rows: 4},
		Brightness: 5,
		NoiseFloor: 30,
		Step:       6.25,
		Period:     5 * time.Millisecond,
		Detector:   DefaultDetectorConfig(),
	}
}

// Validate reports the first inconsistency in c.
func (c Config) Validate() error {
	switch {
	case c.Layout.Cols <= 0 || c.Layout.Rows <= 0:
		return fmt.Errorf("spl: invalid layout %dx%d", c.Layout.Cols, c.Layout.Rows)
	case c.Layout.Cols != len(DefaultPalette(c.Brightness)):
		return fmt.Errorf("spl: bar has %d cells, palette has %d", c.Layout.Cols, len(DefaultPalette(c.Brightness)))
	case c.Brightness == 0 || c.Brightness > 127:
		return fmt.Errorf("spl: brightness %d outside [1, 127]", c.Brightness)
	case c.Step <= 0:
		return fmt.Errorf("spl: step %v must be positive", c.Step)
	case c.Period <= 0:
		return fmt.Errorf("spl: period %v must be positive", c.Period)
	}
	return c.Detector.Validate()
}

// Bucketizer returns the level quantizer for c.
func (c Config) Bucketizer() Bucketizer {
	return Bucketizer{Floor: c.NoiseFloor, Step: c.Step, Levels: c.Layout.Cols}
}

// FrameWriter transmits a raw GRB frame.
type FrameWriter interface {
	Write(buf []byte) (int, error)
}

// Meter shows the current level on the bar.
type Meter struct {
	frames *FrameTable
	bucket Bucketizer
	out    FrameWriter
	level  func() float32
}

// NewMeter bakes the frame table for cfg and writes to out.
func NewMeter(cfg Config, out FrameWriter, level func() float32) (*Meter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	frames, err := Bake(DefaultPalette(cfg.Brightness), cfg.Layout)
	if err != nil {
		return nil, err
	}
	return &Meter{frames: frames, bucket: cfg.Bucketizer(), out: out, level: level}, nil
}

// Step reads the level once and transmits the matching frame. It returns
// the bucket shown.
func (m *Meter) Step() (int, error) {
	i := m.bucket.Index(m.level())
	if _, err := m.out.Write(m.frames.Frame(i)); err != nil {
		return i, fmt.Errorf("spl: strip: %w", err)
	}
	return i, nil
}
