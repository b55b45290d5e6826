package app

import (
	"context"
	"fmt"

	"microsense/hal"
	"microsense/kernel"
	"microsense/spl"
)

// RunSPL runs the sound level meter image until ctx is done.
func RunSPL(ctx context.Context, h hal.HAL, cfg spl.Config) error {
	log := h.Logger()
	if err := cfg.Validate(); err != nil {
		return err
	}
	installPanicHandler(h)

	sys := kernel.NewSystem()
	bus := sys.Bus()
	clock := h.Clock()

	det, err := spl.NewDetector(cfg.Detector, bus, clock)
	if err != nil {
		return err
	}
	for _, evt := range []kernel.Event{kernel.EvtLevelHigh, kernel.EvtLevelLow} {
		if _, err := bus.Listen(kernel.SourceMicrophone, evt, levelLogger(log, sys), kernel.QueueIfBusy); err != nil {
			return err
		}
	}

	strip, err := h.Strip(cfg.StripPin, cfg.Layout.Pixels())
	if err != nil {
		return err
	}
	meter, err := spl.NewMeter(cfg, strip, det.Level)
	if err != nil {
		return err
	}

	mic := h.Microphone()
	if err := mic.Enable(true); err != nil {
		return fmt.Errorf("spl: microphone: %w", err)
	}
	det.SetLogger(log)

	done := sys.Start(ctx)
	sampled := make(chan struct{})
	go func() {
		defer close(sampled)
		det.Run(ctx, mic)
	}()
	log.WriteLineString(fmt.Sprintf("spl: %dx%d bar on P%d, floor %.1f dB, %.2f dB per cell",
		cfg.Layout.Cols, cfg.Layout.Rows, cfg.StripPin, cfg.NoiseFloor, cfg.Step))

	for ctx.Err() == nil {
		if _, err := meter.Step(); err != nil {
			log.WriteLineString(err.Error())
		}
		clock.Sleep(cfg.Period)
	}
	<-sampled
	if err := mic.Enable(false); err != nil {
		log.WriteLineString("spl: microphone: " + err.Error())
	}
	<-done
	return ctx.Err()
}

func levelLogger(log hal.Logger, sys *kernel.System) kernel.Handler {
	return func(m kernel.Message) {
		log.WriteLineString(fmt.Sprintf("spl: %v %.2f dB at %dms",
			m.Event, float32(m.Value)/100, sys.Ticks()))
	}
}
