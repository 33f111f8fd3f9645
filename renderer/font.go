// renderer/font.go
// Copyright(c) 2024 rds81 contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package renderer

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Font rasterizes strings into RGBA images, which are then uploaded as
// textures and drawn with a Quad.
type Font struct {
	Name string
	Size float64
	face font.Face
}

// NewFont parses a TrueType or OpenType font and prepares a face at
// the given size in pixels.
func NewFont(name string, ttf []byte, size float64) (*Font, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Font{Name: name, Size: size, face: face}, nil
}

func LoadFont(path string, size float64) (*Font, error) {
	ttf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFont(path, ttf, size)
}

// DefaultFont returns the built-in Go Bold font.
func DefaultFont(size float64) *Font {
	f, err := NewFont("gobold", gobold.TTF, size)
	if err != nil {
		// The embedded font always parses.
		panic(err)
	}
	return f
}

func (f *Font) Ascent() int {
	return f.face.Metrics().Ascent.Ceil()
}

func (f *Font) Descent() int {
	return f.face.Metrics().Descent.Ceil()
}

// Measure returns the size in pixels of the image Rasterize would
// return for s.
func (f *Font) Measure(s string) (int, int) {
	return font.MeasureString(f.face, s).Ceil(), f.Ascent() + f.Descent()
}

// Rasterize draws s in color c on a transparent background. The image
// is at least 1x1 pixels, even for an empty string.
func (f *Font) Rasterize(s string, c color.Color) *image.RGBA {
	w, h := f.Measure(s)
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.P(0, f.Ascent()),
	}
	d.DrawString(s)
	return img
}
