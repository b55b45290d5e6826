package app

import (
	"context"
	"fmt"

	"microsense/display"
	"microsense/hal"
	"microsense/kernel"
	"microsense/sonar"
)

// RunSonar runs the dual sonar image until ctx is done.
func RunSonar(ctx context.Context, h hal.HAL, cfg sonar.Config) error {
	log := h.Logger()
	if err := cfg.Validate(); err != nil {
		return err
	}
	installPanicHandler(h)

	sys := kernel.NewSystem()
	bus := sys.Bus()
	clock := h.Clock()

	var dist sonar.Distances
	steer := sonar.NewSteering(cfg.AngleStep, cfg.MaxAngle)
	scroller := display.NewScroller(h.Matrix(), clock.Sleep)

	for ch, pin := range cfg.Echoes {
		in, err := h.Pulse(pin)
		if err != nil {
			return fmt.Errorf("sonar: echo %d: %w", ch, err)
		}
		src := kernel.SourcePin(pin)
		capture := sonar.NewEchoCapture(ch, cfg.SpeedOfSound, &dist)
		if _, err := bus.Listen(src, kernel.EvtPulseHi, capture.Handle, kernel.Reentrant); err != nil {
			return err
		}
		if err := in.OnPulse(pulsePublisher(bus, src, clock)); err != nil {
			return fmt.Errorf("sonar: echo %d: %w", ch, err)
		}
	}

	var tel *sonar.Telemetry
	if cfg.Serial {
		tel = sonar.NewSerialTelemetry(h.Serial(), &dist, cfg.Channels(), clock.Millis)
	} else {
		tel = sonar.NewMatrixTelemetry(scroller, &dist, cfg.Channels())
	}
	show := func(m kernel.Message) {
		if err := tel.Show(m); err != nil {
			log.WriteLineString("sonar: telemetry: " + err.Error())
		}
	}
	if _, err := bus.Listen(kernel.SourcePin(cfg.Echoes[0]), kernel.EvtPulseLo, show, kernel.QueueIfBusy); err != nil {
		return err
	}

	steerBy := func(step func() float32) kernel.Handler {
		return func(kernel.Message) {
			if err := scroller.ScrollInt(int(step())); err != nil {
				log.WriteLineString("sonar: steering: " + err.Error())
			}
		}
	}
	buttons := []struct {
		src  kernel.Source
		btn  hal.Button
		step func() float32
	}{
		{kernel.SourceButtonA, h.Buttons().A(), steer.Decrease},
		{kernel.SourceButtonB, h.Buttons().B(), steer.Increase},
	}
	for _, b := range buttons {
		if _, err := bus.Listen(b.src, kernel.EvtClick, steerBy(b.step), kernel.DropIfBusy); err != nil {
			return err
		}
		if err := b.btn.OnClick(clickPublisher(bus, b.src, clock)); err != nil {
			return fmt.Errorf("sonar: %v: %w", b.src, err)
		}
	}

	pins := make([]hal.GPIOPin, len(cfg.Triggers))
	for i, p := range cfg.Triggers {
		pins[i] = h.GPIO().Pin(p)
	}
	sched, err := sonar.NewScheduler(cfg, pins, h.IRQ(), clock)
	if err != nil {
		return err
	}

	done := sys.Start(ctx)
	log.WriteLineString(fmt.Sprintf("sonar: %d channels, cycle %v, max skew %.1fus",
		cfg.Channels(), cfg.Cycle(), cfg.MaxDelayUs()))

	cycle := cfg.Cycle()
	for ctx.Err() == nil {
		if err := sched.Fire(steer.Angle()); err != nil {
			log.WriteLineString(err.Error())
		}
		clock.Sleep(cycle)
	}
	<-done
	return ctx.Err()
}

// pulsePublisher turns pin pulses into bus messages. It runs in interrupt
// context and does not allocate.
func pulsePublisher(bus *kernel.Bus, src kernel.Source, clock hal.Clock) hal.PulseHandler {
	return func(high bool, widthUs uint32) {
		evt := kernel.EvtPulseLo
		if high {
			evt = kernel.EvtPulseHi
		}
		bus.Publish(kernel.Message{Source: src, Event: evt, Value: widthUs, Time: clock.Micros()})
	}
}

func clickPublisher(bus *kernel.Bus, src kernel.Source, clock hal.Clock) func() {
	return func() {
		bus.Publish(kernel.Message{Source: src, Event: kernel.EvtClick, Time: clock.Micros()})
	}
}
