// math/math_test.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package math

import "testing"

func TestClamp(t *testing.T) {
	for _, test := range []struct {
		x, lo, hi, expected float32
	}{
		{0.5, 0, 1, 0.5},
		{-3, 0, 1, 0},
		{7, 0, 1, 1},
		{1, 1, 1, 1},
	} {
		if c := Clamp(test.x, test.lo, test.hi); c != test.expected {
			t.Errorf("Clamp(%f, %f, %f) = %f, expected %f", test.x, test.lo, test.hi, c, test.expected)
		}
	}

	if c := Clamp(9, 0, 6); c != 6 {
		t.Errorf("integer clamp got %d, expected 6", c)
	}
}

func TestRemap(t *testing.T) {
	for _, test := range []struct {
		x, a1, b1, a2, b2, expected float32
	}{
		{0, 0, 1, 0, 315, 0},
		{1, 0, 1, 0, 315, 315},
		{0.5, 0, 1, 0, 315, 157.5},
		{-15, -15, 15, -135, 135, -135},
		{15, -15, 15, -135, 135, 135},
		{0, -15, 15, -135, 135, 0},
		{1.5, 0, 3, -52, 26, -13},
		// Degenerate source range.
		{4, 2, 2, 10, 20, 10},
	} {
		if r := Remap(test.x, test.a1, test.b1, test.a2, test.b2); Abs(r-test.expected) > 1e-4 {
			t.Errorf("Remap(%f, [%f,%f] -> [%f,%f]) = %f, expected %f", test.x, test.a1, test.b1,
				test.a2, test.b2, r, test.expected)
		}
	}
}

func TestEaseOutCubic(t *testing.T) {
	if v := EaseOutCubic(0); v != 0 {
		t.Errorf("EaseOutCubic(0) = %f, expected 0", v)
	}
	if v := EaseOutCubic(1); v != 1 {
		t.Errorf("EaseOutCubic(1) = %f, expected 1", v)
	}
	prev := float32(0)
	for i := 1; i <= 100; i++ {
		v := EaseOutCubic(float32(i) / 100)
		if v < prev {
			t.Errorf("EaseOutCubic not monotonic at %d: %f < %f", i, v, prev)
		}
		prev = v
	}
	// Decelerating: more than half the travel in the first half of the time.
	if v := EaseOutCubic(0.5); v <= 0.5 {
		t.Errorf("EaseOutCubic(0.5) = %f, expected > 0.5", v)
	}
}

func TestExtent2D(t *testing.T) {
	e := Extent2DFromPosSize([2]float32{45, 433}, [2]float32{76, 55})
	if e.Width() != 76 || e.Height() != 55 {
		t.Errorf("got size %f x %f, expected 76 x 55", e.Width(), e.Height())
	}
	if c := e.Center(); c != [2]float32{83, 460.5} {
		t.Errorf("got center %v", c)
	}
	for _, test := range []struct {
		p      [2]float32
		inside bool
	}{
		{[2]float32{45, 433}, true},
		{[2]float32{121, 488}, true},
		{[2]float32{80, 450}, true},
		{[2]float32{44.9, 450}, false},
		{[2]float32{80, 488.1}, false},
	} {
		if e.Inside(test.p) != test.inside {
			t.Errorf("%v: Inside returned %v, expected %v", test.p, !test.inside, test.inside)
		}
	}
}
