// cmd/rds81bench/radar_test.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import "testing"

func TestReturnColor(t *testing.T) {
	if _, ok := returnColor(0.1); ok {
		t.Errorf("weak return was colored")
	}
	for i, l := range levels {
		c, ok := returnColor(l.threshold)
		if !ok || c != l.color {
			t.Errorf("level %d: got %v, %v", i, c, ok)
		}
	}
	if c, _ := returnColor(10); c != levels[len(levels)-1].color {
		t.Errorf("strongest return %v", c)
	}
}

func TestRadarImage(t *testing.T) {
	img := radarImage(64, 0)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Fatalf("bounds %v", b)
	}
	// The corners are far from all of the cells.
	if img.RGBAAt(0, 0).A != 0 || img.RGBAAt(63, 63).A != 0 {
		t.Errorf("returns in the corners")
	}
	// The strongest cell is at (0.5, 0.3), i.e. row 0.7 from the top.
	if c := img.RGBAAt(32, 45); c.A == 0 {
		t.Errorf("no return at the strongest cell")
	}
}
