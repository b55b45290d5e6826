package plot

import "testing"

func TestRingWraps(t *testing.T) {
	r := NewRing(3)
	if r.Values() != nil || r.Last() != 0 {
		t.Fatal("empty ring not empty")
	}
	for v := uint32(1); v <= 5; v++ {
		r.Push(v)
	}
	got := r.Values()
	want := []uint32{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
	if r.Last() != 5 || r.Len() != 3 {
		t.Fatalf("Last() = %d, Len() = %d; want 5, 3", r.Last(), r.Len())
	}
}

func TestRingPartial(t *testing.T) {
	r := NewRing(4)
	r.Push(7)
	r.Push(8)
	if got := r.Values(); len(got) != 2 || got[0] != 7 || got[1] != 8 {
		t.Fatalf("Values() = %v, want [7 8]", got)
	}
}
