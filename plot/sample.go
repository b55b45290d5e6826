// Package plot reads sonar telemetry lines and draws them in the terminal.
package plot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sample is one telemetry line: board time and both distances in mm.
type Sample struct {
	TimeMs uint32
	D0     uint32
	D1     uint32
}

var ErrMalformed = errors.New("malformed telemetry line")

// ParseLine parses "<ms> <d0> <d1>".
func ParseLine(line string) (Sample, error) {
	f := strings.Fields(line)
	if len(f) != 3 {
		return Sample{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	var v [3]uint32
	for i, s := range f {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return Sample{}, fmt.Errorf("%w: %q: %v", ErrMalformed, line, err)
		}
		v[i] = uint32(n)
	}
	return Sample{TimeMs: v[0], D0: v[1], D1: v[2]}, nil
}

// Filter drops samples that cannot be plotted: one distance more than
// twice the other, or a timestamp that did not advance. The zero Filter
// starts at time 0, so a sample stamped 0 is stale.
type Filter struct {
	last uint32

	Outliers int
	Stale    int
}

// Accept reports whether s should be plotted and counts the rejects.
func (f *Filter) Accept(s Sample) bool {
	if uint64(s.D0) > 2*uint64(s.D1) || uint64(s.D1) > 2*uint64(s.D0) {
		f.Outliers++
		return false
	}
	if s.TimeMs <= f.last {
		f.Stale++
		return false
	}
	f.last = s.TimeMs
	return true
}
