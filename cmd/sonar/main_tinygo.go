//go:build tinygo

package main

import (
	"context"

	"microsense/app"
	"microsense/hal"
	"microsense/sonar"
)

func main() {
	h := hal.New()
	if err := app.RunSonar(context.Background(), h, sonar.DefaultConfig()); err != nil {
		h.Logger().WriteLineString(err.Error())
	}
	select {}
}
