package rng

import "testing"

func TestServiceDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if x, y := a.IntN(1000), b.IntN(1000); x != y {
			t.Fatalf("draw %d: same seed diverged: %d vs %d", i, x, y)
		}
	}
}

func TestRange(t *testing.T) {
	cases := []struct {
		name   string
		lo, hi int
	}{
		{"normal", 90, 240},
		{"swapped", 10, 3},
		{"single", 7, 7},
	}
	s := New(1)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lo, hi := c.lo, c.hi
			if hi < lo {
				lo, hi = hi, lo
			}
			for i := 0; i < 200; i++ {
				v := Range(s, c.lo, c.hi)
				if v < lo || v > hi {
					t.Fatalf("Range(%d, %d) = %d out of bounds", c.lo, c.hi, v)
				}
			}
		})
	}
}

func TestIntNNonPositive(t *testing.T) {
	s := New(3)
	if v := s.IntN(0); v != 0 {
		t.Fatalf("IntN(0) = %d, want 0", v)
	}
	var nilSvc *Service
	if v := nilSvc.IntN(5); v != 0 {
		t.Fatalf("nil IntN = %d, want 0", v)
	}
}
