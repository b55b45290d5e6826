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
	"microsense/spl"
)

func main() {
	var hcfg hal.HeadlessConfig
	cfg := spl.DefaultConfig()
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.DurationVar(&hcfg.Duration, "duration", 0, "Stop after this long in headless mode (0 = run until interrupted).")
	flag.DurationVar(&cfg.Period, "period", cfg.Period, "Bar refresh interval.")
	flag.Parse()

	run := func(ctx context.Context, h hal.HAL) error {
		return app.RunSPL(ctx, h, cfg)
	}

	if hcfg.Enabled {
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
