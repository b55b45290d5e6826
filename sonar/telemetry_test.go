package sonar

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"microsense/kernel"
)

func TestSerialTelemetryLine(t *testing.T) {
	var d Distances
	d.Store(0, 412)
	d.Store(1, 398)

	var out bytes.Buffer
	tel := NewSerialTelemetry(&out, &d, 2, func() uint32 { return 12345 })
	if err := tel.Show(kernel.Message{}); err != nil {
		t.Fatalf("Show() err = %v", err)
	}
	d.Store(0, 7)
	if err := tel.Show(kernel.Message{}); err != nil {
		t.Fatalf("Show() err = %v", err)
	}

	want := "12345 412 398\n12345 7 398\n"
	if got := out.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

type fakeScroller struct {
	shown []string
	err   error
}

func (f *fakeScroller) ScrollInt(n int) error {
	return f.ScrollText(strconv.Itoa(n))
}

func (f *fakeScroller) ScrollText(s string) error {
	if f.err != nil {
		return f.err
	}
	f.shown = append(f.shown, s)
	return nil
}

func TestMatrixTelemetryScrollsDistancesThenUnit(t *testing.T) {
	var d Distances
	d.Store(0, 3)
	d.Store(1, 4)
	f := &fakeScroller{}
	tel := NewMatrixTelemetry(f, &d, 2)
	if err := tel.Show(kernel.Message{}); err != nil {
		t.Fatalf("Show() err = %v", err)
	}
	want := []string{"3", "4", "mm"}
	if len(f.shown) != len(want) {
		t.Fatalf("shown = %q, want %q", f.shown, want)
	}
	for i := range want {
		if f.shown[i] != want[i] {
			t.Fatalf("shown = %q, want %q", f.shown, want)
		}
	}
}

func TestMatrixTelemetryError(t *testing.T) {
	var d Distances
	f := &fakeScroller{err: errors.New("dead")}
	if err := NewMatrixTelemetry(f, &d, 2).Show(kernel.Message{}); err == nil {
		t.Fatal("Show() err = nil, want error")
	}
}
