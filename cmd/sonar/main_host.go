//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"microsense/app"
	"microsense/hal"
	"microsense/sonar"
)

func main() {
	var hcfg hal.HeadlessConfig
	var matrix bool
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window; stdin lines \"a\"/\"b\" press the buttons.")
	flag.DurationVar(&hcfg.Duration, "duration", 0, "Stop after this long in headless mode (0 = run until interrupted).")
	flag.BoolVar(&matrix, "matrix", false, "Scroll distances on the matrix instead of printing telemetry lines.")
	flag.Parse()

	cfg := sonar.DefaultConfig()
	cfg.Serial = !matrix
	run := func(ctx context.Context, h hal.HAL) error {
		return app.RunSonar(ctx, h, cfg)
	}

	if hcfg.Enabled {
		hcfg.Input = os.Stdin
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, run, hcfg); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(run); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
