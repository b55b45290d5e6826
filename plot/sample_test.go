package plot

import (
	"errors"
	"testing"
)

func TestParseLine(t *testing.T) {
	s, err := ParseLine("12345 412 398")
	if err != nil {
		t.Fatalf("ParseLine() err = %v", err)
	}
	if s != (Sample{TimeMs: 12345, D0: 412, D1: 398}) {
		t.Fatalf("ParseLine() = %+v", s)
	}

	for _, line := range []string{"", "1 2", "1 2 3 4", "a 2 3", "1 -2 3", "1 2 99999999999"} {
		if _, err := ParseLine(line); !errors.Is(err, ErrMalformed) {
			t.Fatalf("ParseLine(%q) err = %v, want %v", line, err, ErrMalformed)
		}
	}
}

func TestFilterRejectsOutliers(t *testing.T) {
	var f Filter
	tests := []struct {
		s    Sample
		want bool
	}{
		{Sample{TimeMs: 100, D0: 400, D1: 800}, true},
		{Sample{TimeMs: 200, D0: 400, D1: 801}, false},
		{Sample{TimeMs: 300, D0: 900, D1: 400}, false},
		{Sample{TimeMs: 400, D0: 0, D1: 0}, true},
		{Sample{TimeMs: 500, D0: 1, D1: 0}, false},
	}
	for _, tt := range tests {
		if got := f.Accept(tt.s); got != tt.want {
			t.Fatalf("Accept(%+v) = %v, want %v", tt.s, got, tt.want)
		}
	}
	if f.Outliers != 3 {
		t.Fatalf("Outliers = %d, want 3", f.Outliers)
	}
}

func TestFilterRejectsStaleTime(t *testing.T) {
	var f Filter
	if !f.Accept(Sample{TimeMs: 100, D0: 500, D1: 500}) {
		t.Fatal("first sample rejected")
	}
	if f.Accept(Sample{TimeMs: 100, D0: 500, D1: 500}) {
		t.Fatal("repeated timestamp accepted")
	}
	if f.Accept(Sample{TimeMs: 50, D0: 500, D1: 500}) {
		t.Fatal("earlier timestamp accepted")
	}
	if !f.Accept(Sample{TimeMs: 101, D0: 500, D1: 500}) {
		t.Fatal("advancing timestamp rejected")
	}
	if f.Stale != 2 {
		t.Fatalf("Stale = %d, want 2", f.Stale)
	}
}

func TestFilterRejectsBootTimestamp(t *testing.T) {
	var f Filter
	if f.Accept(Sample{TimeMs: 0, D0: 500, D1: 500}) {
		t.Fatal("sample at t=0 accepted")
	}
	if !f.Accept(Sample{TimeMs: 1, D0: 500, D1: 500}) {
		t.Fatal("sample at t=1 rejected")
	}
	if f.Stale != 1 {
		t.Fatalf("Stale = %d, want 1", f.Stale)
	}
}
