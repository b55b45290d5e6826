package spl

import (
	"math"
	"testing"
)

func TestBucketIndex(t *testing.T) {
	b := DefaultConfig().Bucketizer()
	tests := []struct {
		level float32
		want  int
	}{
		{0, 0},
		{30, 0},
		{36.24, 0},
		{36.25, 1},
		{72.25, 6},
		{79.99, 7},
		{140, 7},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := b.Index(tt.level); got != tt.want {
			t.Fatalf("Index(%v) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestBucketIndexMonotonic(t *testing.T) {
	b := DefaultConfig().Bucketizer()
	prev := b.Index(-10)
	for l := float32(-10); l < 150; l += 0.1 {
		i := b.Index(l)
		if i < prev {
			t.Fatalf("Index(%v) = %d after %d, want non-decreasing", l, i, prev)
		}
		if i < 0 || i > b.Levels-1 {
			t.Fatalf("Index(%v) = %d outside [0, %d]", l, i, b.Levels-1)
		}
		prev = i
	}
}
