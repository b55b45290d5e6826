package spl

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"microsense/hal"
	"microsense/kernel"
)

// DetectorConfig tunes the level detector.
type DetectorConfig struct {
	// Window is the number of samples per level estimate.
	Window int
	// SamplePeriod is the microphone sampling interval.
	SamplePeriod time.Duration
	// Gain scales the dB estimate; OffsetDB shifts it so a full-scale
	// 12-bit sine reads about 105 dB.
	Gain     float32
	OffsetDB float32
	// MinValue is the lowest level ever reported.
	MinValue float32
	// OffsetAlpha is the per-sample weight of the running DC offset and
	// PowerAlpha that of the running mean square. Both must lie in (0, 1].
	OffsetAlpha float32
	PowerAlpha  float32
	// HighThreshold and LowThreshold raise EvtLevelHigh and EvtLevelLow.
	HighThreshold float32
	LowThreshold  float32
}

// DefaultDetectorConfig samples at 50 kHz over 64-sample windows.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Window:        64,
		SamplePeriod:  20 * time.Microsecond,
		Gain:          1,
		OffsetDB:      41.8,
		MinValue:      40,
		OffsetAlpha:   1.0 / 4096,
		PowerAlpha:    1.0 / 512,
		HighThreshold: 105,
		LowThreshold:  45,
	}
}

// Validate reports the first inconsistency in c.
func (c DetectorConfig) Validate() error {
	switch {
	case c.Window < 2:
		return fmt.Errorf("spl: window %d too small", c.Window)
	case c.SamplePeriod <= 0:
		return fmt.Errorf("spl: sample period %v must be positive", c.SamplePeriod)
	case c.Gain <= 0:
		return fmt.Errorf("spl: gain %v must be positive", c.Gain)
	case c.OffsetAlpha <= 0 || c.OffsetAlpha > 1:
		return fmt.Errorf("spl: offset alpha %v outside (0, 1]", c.OffsetAlpha)
	case c.PowerAlpha <= 0 || c.PowerAlpha > 1:
		return fmt.Errorf("spl: power alpha %v outside (0, 1]", c.PowerAlpha)
	case c.LowThreshold >= c.HighThreshold:
		return fmt.Errorf("spl: low threshold %v not below high threshold %v", c.LowThreshold, c.HighThreshold)
	}
	return nil
}

// Normalizer removes the running DC offset of raw samples and applies a
// fixed gain. The offset is an exponential average that carries over from
// one block to the next, so blocks shorter than a signal period do not
// bias it.
type Normalizer struct {
	Gain float32
	// Alpha is the per-sample weight of a new sample in the offset.
	Alpha float32

	offset float32
	primed bool
}

// Offset returns the current DC estimate in raw units.
func (n *Normalizer) Offset() float32 { return n.offset }

// Process writes the normalized form of in to out, which must be at least
// as long as in. The first block seeds the offset with its mean.
func (n *Normalizer) Process(in []int16, out []float32) {
	if len(in) == 0 {
		return
	}
	if !n.primed {
		var sum int64
		for _, v := range in {
			sum += int64(v)
		}
		n.offset = float32(sum) / float32(len(in))
		n.primed = true
	}
	for i, v := range in {
		x := float32(v)
		n.offset += (x - n.offset) * n.Alpha
		out[i] = (x - n.offset) * n.Gain
	}
}

// Publisher receives threshold events.
type Publisher interface {
	Publish(kernel.Message)
}

type threshold uint8

const (
	thresholdNone threshold = iota
	thresholdHigh
	thresholdLow
)

// Detector estimates the sound pressure level from windows of microphone
// samples. Level is safe to call from any goroutine.
type Detector struct {
	cfg   DetectorConfig
	norm  Normalizer
	pub   Publisher
	clock hal.Clock

	raw   []int16
	buf   []float32
	power float32
	level atomic.Uint32
	state threshold
	log   hal.Logger
}

// NewDetector returns a detector reporting threshold crossings to pub,
// which may be nil.
func NewDetector(cfg DetectorConfig, pub Publisher, clock hal.Clock) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := &Detector{
		cfg:   cfg,
		norm:  Normalizer{Gain: 1, Alpha: cfg.OffsetAlpha},
		pub:   pub,
		clock: clock,
		raw:   make([]int16, cfg.Window),
		buf:   make([]float32, cfg.Window),
	}
	d.level.Store(math.Float32bits(cfg.MinValue))
	return d, nil
}

// Level returns the most recent estimate in dB.
func (d *Detector) Level() float32 {
	return math.Float32frombits(d.level.Load())
}

// SetLogger sets where Run reports microphone errors.
func (d *Detector) SetLogger(log hal.Logger) { d.log = log }

// Process feeds one window of raw samples into the running mean square
// and returns the updated level.
func (d *Detector) Process(samples []int16) float32 {
	if len(samples) > len(d.buf) {
		samples = samples[:len(d.buf)]
	}
	d.norm.Process(samples, d.buf)

	a := d.cfg.PowerAlpha
	for _, v := range d.buf[:len(samples)] {
		d.power += (v*v - d.power) * a
	}
	level := d.cfg.MinValue
	if d.power > 0 {
		level = d.cfg.Gain*float32(10*math.Log10(float64(d.power))) + d.cfg.OffsetDB
		if level < d.cfg.MinValue {
			level = d.cfg.MinValue
		}
	}
	d.level.Store(math.Float32bits(level))
	d.checkThresholds(level)
	return level
}

func (d *Detector) checkThresholds(level float32) {
	var evt kernel.Event
	switch {
	case level >= d.cfg.HighThreshold && d.state != thresholdHigh:
		d.state = thresholdHigh
		evt = kernel.EvtLevelHigh
	case level <= d.cfg.LowThreshold && d.state != thresholdLow:
		d.state = thresholdLow
		evt = kernel.EvtLevelLow
	default:
		return
	}
	if d.pub == nil {
		return
	}
	var now uint64
	if d.clock != nil {
		now = d.clock.Micros()
	}
	d.pub.Publish(kernel.Message{
		Source: kernel.SourceMicrophone,
		Event:  evt,
		Value:  uint32(level * 100),
		Time:   now,
	})
}

// Run samples mic window by window until ctx is done. A failed read is
// logged once per run of failures; the detector waits one window and tries
// again, keeping the last level meanwhile.
func (d *Detector) Run(ctx context.Context, mic hal.Microphone) error {
	retry := time.Duration(d.cfg.Window) * d.cfg.SamplePeriod
	failing := false
	for ctx.Err() == nil {
		n, err := mic.Read(d.raw, d.cfg.SamplePeriod)
		if err != nil {
			if !failing && d.log != nil {
				d.log.WriteLineString("spl: microphone: " + err.Error())
			}
			failing = true
			d.sleep(retry)
			continue
		}
		if failing && d.log != nil {
			d.log.WriteLineString("spl: microphone: recovered")
		}
		failing = false
		d.Process(d.raw[:n])
		runtime.Gosched()
	}
	return ctx.Err()
}

func (d *Detector) sleep(t time.Duration) {
	if d.clock != nil {
		d.clock.Sleep(t)
		return
	}
	time.Sleep(t)
}
