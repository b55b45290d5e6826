//go:build !tinygo

package hal

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Duration stops the run after the given time (0 = run until cancelled).
	Duration time.Duration
	// Input, when set, is read line by line: "a" clicks button A, "b"
	// clicks button B.
	Input io.Reader
}

// RunHeadless runs a firmware image against the host HAL without a window.
func RunHeadless(ctx context.Context, run func(context.Context, HAL) error, cfg HeadlessConfig) error {
	h := newHostHAL(DefaultSonarSimConfig())

	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	if cfg.Input != nil {
		go feedButtons(ctx, cfg.Input, h.buttons)
	}

	err := run(ctx, h)
	if errors.Is(err, context.DeadlineExceeded) && cfg.Duration > 0 {
		return nil
	}
	return err
}

func feedButtons(ctx context.Context, r io.Reader, bs *hostButtons) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "a":
			bs.a.click()
		case "b":
			bs.b.click()
		}
	}
}
