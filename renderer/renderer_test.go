// renderer/renderer_test.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestQuadVertices(t *testing.T) {
	v := quadVertices([2]float32{10, 20}, [2]float32{30, 40})
	expected := [16]float32{
		10, 20, 0, 0,
		10, 60, 0, 1,
		40, 60, 1, 1,
		40, 20, 1, 0,
	}
	if v != expected {
		t.Errorf("got %v, expected %v", v, expected)
	}

	// Degenerate quads are allowed.
	v = quadVertices([2]float32{5, 5}, [2]float32{0, 0})
	for i := 0; i < 4; i++ {
		if v[4*i] != 5 || v[4*i+1] != 5 {
			t.Errorf("zero-size quad vertex %d at (%f,%f)", i, v[4*i], v[4*i+1])
		}
	}
}

func TestQuadModel(t *testing.T) {
	pos, size := [2]float32{100, 200}, [2]float32{50, 50}

	if m := quadModel(pos, size, 0); m != mgl32.Ident4() {
		t.Errorf("unrotated model should be the identity, got %v", m)
	}

	for _, rot := range []float32{-135, -45, 30, 90, 315} {
		m := quadModel(pos, size, rot)
		c := m.Mul4x1(mgl32.Vec4{125, 225, 0, 1})
		if !c.ApproxEqualThreshold(mgl32.Vec4{125, 225, 0, 1}, 1e-3) {
			t.Errorf("rotation %f moved the center to %v", rot, c)
		}
	}

	// Positive angles rotate clockwise: the top middle point moves to
	// the right middle.
	m := quadModel(pos, size, 90)
	p := m.Mul4x1(mgl32.Vec4{125, 250, 0, 1})
	if !p.ApproxEqualThreshold(mgl32.Vec4{150, 225, 0, 1}, 1e-3) {
		t.Errorf("90 degree rotation: got %v, expected (150,225)", p)
	}
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}

	f := flipVertical(img)
	if f.Bounds() != img.Bounds() {
		t.Fatalf("bounds changed: %v", f.Bounds())
	}
	for y := 0; y < 3; y++ {
		for x := 0; x < 2; x++ {
			if c := f.RGBAAt(x, y); c.R != uint8(x) || c.G != uint8(2-y) {
				t.Errorf("(%d,%d): got %v", x, y, c)
			}
		}
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(4, 4, 8, 6))
	img.SetRGBA(4, 4, color.RGBA{R: 200, A: 255})

	r := toRGBA(img)
	if r.Bounds() != image.Rect(0, 0, 4, 2) {
		t.Errorf("bounds %v", r.Bounds())
	}
	if c := r.RGBAAt(0, 0); c.R != 200 {
		t.Errorf("origin pixel %v", c)
	}
}

func TestRasterize(t *testing.T) {
	f := DefaultFont(16)

	w, h := f.Measure("40")
	if w <= 0 || h <= 0 {
		t.Fatalf("Measure returned %dx%d", w, h)
	}
	img := f.Rasterize("40", color.White)
	if img.Bounds().Dx() != w || img.Bounds().Dy() != h {
		t.Errorf("image is %v, expected %dx%d", img.Bounds(), w, h)
	}

	lit := false
	for i := 3; i < len(img.Pix); i += 4 {
		lit = lit || img.Pix[i] != 0
	}
	if !lit {
		t.Errorf("no pixels drawn")
	}

	if e := f.Rasterize("", color.White); e.Bounds().Dx() != 1 || e.Bounds().Dy() != h {
		t.Errorf("empty string image is %v", e.Bounds())
	}

	if wa, _ := f.Measure("STAB OFF"); wa <= w {
		t.Errorf("longer string measured narrower: %d <= %d", wa, w)
	}
}

func TestStats(t *testing.T) {
	stats = Stats{DrawCalls: 3, TargetBinds: 2}
	s := TakeStats()
	if s.DrawCalls != 3 || s.TargetBinds != 2 {
		t.Errorf("TakeStats returned %+v", s)
	}
	if stats != (Stats{}) {
		t.Errorf("stats not reset: %+v", stats)
	}
}
