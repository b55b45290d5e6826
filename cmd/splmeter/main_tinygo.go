//go:build tinygo

package main

import (
	"context"

	"microsense/app"
	"microsense/hal"
	"microsense/spl"
)

func main() {
	h := hal.New()
	if err := app.RunSPL(context.Background(), h, spl.DefaultConfig()); err != nil {
		h.Logger().WriteLineString(err.Error())
	}
	select {}
}
